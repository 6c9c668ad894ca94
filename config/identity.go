package config

// IdentityConfig 身份配置
type IdentityConfig struct {
	// KeyFile 私钥文件路径
	//
	// 为空时每次启动生成新的 Ed25519 密钥；非空时优先加载，
	// 加载失败则生成新密钥并写回该路径。
	KeyFile string `json:"key_file,omitempty"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	return nil
}

// WithKeyFile 设置私钥文件路径
func (c IdentityConfig) WithKeyFile(path string) IdentityConfig {
	c.KeyFile = path
	return c
}
