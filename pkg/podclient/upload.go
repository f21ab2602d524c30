package podclient

import (
	"context"
	"io"

	"pod-service/internal/domain"
)

// File 待上传的一个附件
type File struct {
	Name   string
	Reader io.Reader
}

type uploadOut struct {
	Path  string   `json:"path"`
	Paths []string `json:"paths"`
}

// Upload 上传单个附件，返回服务端引用路径
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	return c.upload(ctx, 0, File{Name: name, Reader: r})
}

// UploadAll 串行上传：每个文件等前一个完成后才开始，
// 返回的引用顺序即提交顺序，网络完成顺序与此无关。
// 任何一个失败立即中止并带上出错下标；已传成功的文件不回收。
func (c *Client) UploadAll(ctx context.Context, files []File) ([]string, error) {
	refs := make([]string, 0, len(files))
	for i, f := range files {
		ref, err := c.upload(ctx, i, f)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (c *Client) upload(ctx context.Context, index int, f File) (string, error) {
	var env envelope[uploadOut]
	resp, err := c.req(ctx).
		SetFileReader("file", f.Name, f.Reader).
		SetResult(&env).
		Post("/api/v1/pod/upload")
	if err != nil {
		return "", &domain.UploadError{Index: index, Name: f.Name, Err: err}
	}
	if resp.IsError() {
		return "", &domain.UploadError{Index: index, Name: f.Name, Err: mapError(resp)}
	}
	return env.Data.Path, nil
}
