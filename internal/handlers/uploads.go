package handlers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
)

// formFiles возвращает файлы поля multipart-формы.
// Для JSON-запроса или отсутствующего поля - nil.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// formFile - первый файл поля
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
