// 包 version：构建信息，由 -ldflags "-X bairros-map/internal/version.Commit=..." 注入
package version

// Commit 构建时写入的提交哈希；本地构建为 dev
var Commit = "dev"
