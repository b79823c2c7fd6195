package attrs

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"bairros-map/internal/logger"
)

var (
	ErrLoad          = errors.New("attrs load error")
	ErrNotReady      = errors.New("attrs not ready")
	ErrAlreadyLoaded = errors.New("attrs already loaded")
)

// State 属性存储的生命周期
type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// LoadFunc 一次性拉取全部记录（文件、HTTP、S3 或数据库）
type LoadFunc func(ctx context.Context) ([]Record, error)

type snapshot struct {
	records []Record
	byName  map[string]int
	version string
}

// 文档注释：属性存储
// 背景：替代页面里的全局变量；加载完成后以原子指针发布快照，读路径无锁，未就绪时读取返回空。
// 约束：整个进程生命周期只加载一次；加载失败后保持 Failed，不重试。
type Store struct {
	state atomic.Int32
	snap  atomic.Pointer[snapshot]
	mu    sync.Mutex
	err   error
}

func NewStore() *Store { return &Store{} }

// Load 执行一次加载；第二次调用返回 ErrAlreadyLoaded
func (s *Store) Load(ctx context.Context, load LoadFunc) error {
	if !s.state.CompareAndSwap(int32(Uninitialized), int32(Loading)) {
		return ErrAlreadyLoaded
	}
	l := logger.L()
	l.Debug("attrs_load_begin")
	recs, err := load(ctx)
	if err != nil {
		if !errors.Is(err, ErrLoad) {
			err = fmt.Errorf("%w: %v", ErrLoad, err)
		}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.state.Store(int32(Failed))
		l.Error("attrs_load_error", "err", err)
		return err
	}
	sn := &snapshot{records: recs, byName: make(map[string]int, len(recs)), version: digest(recs)}
	dup := 0
	for i, r := range recs {
		if !r.Name.Present {
			continue
		}
		if _, ok := sn.byName[r.Name.Text]; ok {
			dup++
			continue
		}
		sn.byName[r.Name.Text] = i
	}
	if dup > 0 {
		l.Warn("attrs_duplicate_names", "count", dup)
	}
	s.snap.Store(sn)
	s.state.Store(int32(Ready))
	l.Info("attrs_load_ok", "records", len(recs), "version", sn.version)
	return nil
}

func (s *Store) State() State { return State(s.state.Load()) }

// Err 返回加载失败的原因；未失败时为 nil
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Version 已加载数据的内容摘要；内容相同则摘要相同，未就绪时为空串
func (s *Store) Version() string {
	sn := s.snap.Load()
	if sn == nil {
		return ""
	}
	return sn.version
}

// digest 对记录的 JSON 编码取哈希；缺失值与空串编码不同，摘要也不同
func digest(recs []Record) string {
	b, _ := json.Marshal(recs)
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:8])
}

// Records 返回全部记录；未就绪时为 nil。调用方不得修改返回的切片。
func (s *Store) Records() []Record {
	sn := s.snap.Load()
	if sn == nil {
		return nil
	}
	return sn.records
}

// FindByName 按名称精确匹配；重名时返回首条
func (s *Store) FindByName(name string) (Record, bool) {
	sn := s.snap.Load()
	if sn == nil {
		return Record{}, false
	}
	i, ok := sn.byName[name]
	if !ok {
		return Record{}, false
	}
	return sn.records[i], true
}

// 文档注释：由原始字节源构造 LoadFunc
// 背景：文件/HTTP/S3 统一返回字节，这里负责可选的 Schema 校验与解析。
func FromJSON(fetch func(ctx context.Context) ([]byte, error), validate bool) LoadFunc {
	return func(ctx context.Context) ([]Record, error) {
		b, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch: %v", ErrLoad, err)
		}
		if validate {
			if err := Validate(b); err != nil {
				return nil, err
			}
		}
		return Decode(b)
	}
}

// Static 用于测试与内嵌数据
func Static(recs []Record) LoadFunc {
	return func(context.Context) ([]Record, error) { return recs, nil }
}
