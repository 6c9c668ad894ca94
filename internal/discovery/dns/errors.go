package dns

import "errors"

// 预定义错误
var (
	// ErrInvalidDomain 无效的域名
	ErrInvalidDomain = errors.New("dns: invalid domain")

	// ErrInvalidDNSAddr 无效的 dnsaddr 记录
	ErrInvalidDNSAddr = errors.New("dns: invalid dnsaddr record")

	// ErrMaxDepthExceeded 超过最大递归深度
	ErrMaxDepthExceeded = errors.New("dns: max recursion depth exceeded")

	// ErrNoRecordsFound 未找到 DNS 记录
	ErrNoRecordsFound = errors.New("dns: no DNS records found")

	// ErrQueryFailed DNS 服务器返回错误
	ErrQueryFailed = errors.New("dns: query failed")

	// ErrUnknownNetwork 命名空间没有配置种子域名
	ErrUnknownNetwork = errors.New("dns: no seed domain for network")
)
