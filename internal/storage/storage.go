package storage

import "mime/multipart"

// FileStorage 文件存储接口，本地、S3、GCS 三种实现可互换。
// 返回值是可直接写入数据库的访问地址。
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}
