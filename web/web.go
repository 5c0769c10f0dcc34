// Package web embeds the server-rendered templates and static assets.
package web

import (
	"fmt"
	"io/fs"
	"net/http"

	"embed"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates static
var files embed.FS

// NewEngine builds the template engine over the embedded templates.
func NewEngine() (*html.Engine, error) {
	templates, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, fmt.Errorf("web - NewEngine - fs.Sub: %w", err)
	}

	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.AddFunc("formatSize", FormatSize)

	return engine, nil
}

// Static returns the embedded static assets rooted at static/.
func Static() (http.FileSystem, error) {
	static, err := fs.Sub(files, "static")
	if err != nil {
		return nil, fmt.Errorf("web - Static - fs.Sub: %w", err)
	}

	return http.FS(static), nil
}

// FormatSize renders a byte count for humans.
func FormatSize(size int64) string {
	const unit = 1024

	switch {
	case size >= unit*unit*unit:
		return fmt.Sprintf("%.1f GB", float64(size)/(unit*unit*unit))
	case size >= unit*unit:
		return fmt.Sprintf("%.1f MB", float64(size)/(unit*unit))
	case size >= unit:
		return fmt.Sprintf("%.1f KB", float64(size)/unit)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
