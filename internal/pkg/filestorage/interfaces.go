package filestorage

import "mime/multipart"

// FileStorage abstracts where uploaded documents live
type FileStorage interface {
	// SaveFile persists an uploaded file and returns the stored file name
	SaveFile(file *multipart.FileHeader) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(fileName string) error

	// GetFileURL returns the public URL for a stored file
	GetFileURL(fileName string) string

	// GetFullPath returns the absolute filesystem path for a stored file
	GetFullPath(fileName string) string
}
