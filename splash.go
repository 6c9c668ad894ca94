package splash

import "github.com/mpwsh/splash/internal/protocol/identify"

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "0.3.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// AgentVersion 返回 identify 中通告的 agent 字符串
func AgentVersion() string {
	return identify.AgentPrefix + Version
}

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "Splash! v" + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}
