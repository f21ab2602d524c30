package storage

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pod-service/internal/domain"
	"pod-service/pkg/utils"
)

// 照片和签名图，外加 pdf（签名板有时直接导出 pdf）
var allowedExt = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".pdf": {},
}

// LocalStore 附件落到本地磁盘，引用格式 /uploads/<uuid><ext>，
// 由 API 引擎以静态目录只读对外提供。
type LocalStore struct {
	Dir string
}

func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Dir: dir}, nil
}

// Save 写入一个附件并返回稳定引用。文件名只取扩展名，
// 实际名字用 uuid，避免覆盖和路径穿越。
func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if _, ok := allowedExt[ext]; !ok {
		return "", &domain.UploadError{Name: name, Err: errUnsupported(ext)}
	}
	fname := utils.NewID() + ext
	dst, err := os.Create(filepath.Join(s.Dir, fname))
	if err != nil {
		return "", &domain.UploadError{Name: name, Err: err}
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		return "", &domain.UploadError{Name: name, Err: err}
	}
	return path.Join("/uploads", fname), nil
}

type errUnsupported string

func (e errUnsupported) Error() string { return "unsupported file type " + string(e) }
