// 包 datasource：按 URI 读取外部维护的数据文件（本地路径、HTTP(S)、S3）
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"bairros-map/internal/logger"
)

var ErrUnsupportedScheme = errors.New("unsupported data source scheme")

// 单个数据文件的读取上限，防止误配到超大对象
const maxBody = 64 << 20

// S3Config 对象存储参数；Endpoint 非空时用于 MinIO 等兼容实现
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
	AccessKey string // 与 SecretKey 同时设置时使用静态凭证
	SecretKey string
}

// S3FromEnv 读取 S3_REGION / S3_ENDPOINT / S3_PATH_STYLE
func S3FromEnv() S3Config {
	c := S3Config{Region: os.Getenv("S3_REGION"), Endpoint: os.Getenv("S3_ENDPOINT")}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	c.PathStyle = os.Getenv("S3_PATH_STYLE") == "true"
	c.AccessKey = os.Getenv("S3_ACCESS_KEY")
	c.SecretKey = os.Getenv("S3_SECRET_KEY")
	return c
}

// 文档注释：构造 S3 客户端
// 背景：未配置静态密钥时凭证走 AWS 默认链；MinIO 等自建存储通常配合 S3_ENDPOINT 使用静态密钥。
func NewS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = c.PathStyle
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}

// 文档注释：数据文件读取器
// 背景：属性表与图层文件由外部维护，部署时可能放在本地、静态站点或对象存储；统一成字节读取，解析由调用方负责。
// 约束：不重试、不缓存；S3 客户端首次用到时才创建。
type Fetcher struct {
	HTTP     *http.Client
	S3       *s3.Client
	S3Config S3Config

	once  sync.Once
	s3err error
}

func NewFetcher() *Fetcher {
	return &Fetcher{HTTP: &http.Client{Timeout: 15 * time.Second}, S3Config: S3FromEnv()}
}

// Func 绑定 URI，返回可延迟调用的读取函数
func (f *Fetcher) Func(uri string) func(ctx context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) { return f.Fetch(ctx, uri) }
}

// Fetch 读取 URI 指向的全部内容
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// 普通路径（含 Windows 盘符）
		return readFile(uri)
	}
	l := logger.L()
	switch strings.ToLower(u.Scheme) {
	case "file":
		return readFile(u.Path)
	case "http", "https":
		l.Debug("datasource_http_get", "url", uri)
		return f.fetchHTTP(ctx, uri)
	case "s3":
		l.Debug("datasource_s3_get", "bucket", u.Host, "key", strings.TrimPrefix(u.Path, "/"))
		return f.fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
}

func readFile(p string) ([]byte, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return b, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	c := f.HTTP
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", uri, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

func (f *Fetcher) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 uri needs bucket and key: s3://%s/%s", bucket, key)
	}
	f.once.Do(func() {
		if f.S3 == nil {
			f.S3, f.s3err = NewS3Client(ctx, f.S3Config)
		}
	})
	if f.s3err != nil {
		return nil, f.s3err
	}
	out, err := f.S3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(io.LimitReader(out.Body, maxBody))
}
