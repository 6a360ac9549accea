package apiv1

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// Error defines model for Error.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CompressRequest defines model for CompressRequest.
type CompressRequest struct {
	TargetSize string `json:"target_size" form:"target_size"`
}

// Status defines model for Status.
type Status struct {
	Kind   string `json:"kind,omitempty"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
	Text   string `json:"text,omitempty"`
}

// FileInfo defines model for FileInfo.
type FileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	SizeText string `json:"size_text"`
	MimeType string `json:"mime_type"`
}

// Download defines model for Download.
type Download struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	SizeText  string    `json:"size_text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session defines model for Session.
type Session struct {
	State       string    `json:"state"`
	File        *FileInfo `json:"file,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Download    *Download `json:"download,omitempty"`
	CanCompress bool      `json:"can_compress"`
}

// PostSessionCompressParams defines parameters for PostSessionCompress.
type PostSessionCompressParams struct {
	// Wait seconds to wait for the result before answering
	Wait *int `form:"wait,omitempty" json:"wait,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Health check
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// Current state of the caller's session
	// (GET /session)
	GetSession(c *fiber.Ctx) error
	// End the session, dropping its file and download link
	// (DELETE /session)
	DeleteSession(c *fiber.Ctx) error
	// Start compressing the selected file
	// (POST /session/compress)
	PostSessionCompress(c *fiber.Ctx, params PostSessionCompressParams) error
	// Revoke the download link of the last result
	// (DELETE /session/download)
	DeleteSessionDownload(c *fiber.Ctx) error
	// Select the image to compress
	// (POST /session/file)
	PostSessionFile(c *fiber.Ctx) error
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

type MiddlewareFunc fiber.Handler

// GetPing operation middleware
func (siw *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return siw.Handler.GetPing(c)
}

// GetSession operation middleware
func (siw *ServerInterfaceWrapper) GetSession(c *fiber.Ctx) error {
	return siw.Handler.GetSession(c)
}

// DeleteSession operation middleware
func (siw *ServerInterfaceWrapper) DeleteSession(c *fiber.Ctx) error {
	return siw.Handler.DeleteSession(c)
}

// PostSessionCompress operation middleware
func (siw *ServerInterfaceWrapper) PostSessionCompress(c *fiber.Ctx) error {
	var params PostSessionCompressParams

	if raw := c.Query("wait"); raw != "" {
		wait, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid format for parameter wait: "+err.Error())
		}
		params.Wait = &wait
	}

	return siw.Handler.PostSessionCompress(c, params)
}

// DeleteSessionDownload operation middleware
func (siw *ServerInterfaceWrapper) DeleteSessionDownload(c *fiber.Ctx) error {
	return siw.Handler.DeleteSessionDownload(c)
}

// PostSessionFile operation middleware
func (siw *ServerInterfaceWrapper) PostSessionFile(c *fiber.Ctx) error {
	return siw.Handler.PostSessionFile(c)
}

// FiberServerOptions provides options for the Fiber server.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []MiddlewareFunc
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	for _, m := range options.Middlewares {
		router.Use(fiber.Handler(m))
	}

	router.Get(options.BaseURL+"/ping", wrapper.GetPing)
	router.Get(options.BaseURL+"/session", wrapper.GetSession)
	router.Delete(options.BaseURL+"/session", wrapper.DeleteSession)
	router.Post(options.BaseURL+"/session/compress", wrapper.PostSessionCompress)
	router.Delete(options.BaseURL+"/session/download", wrapper.DeleteSessionDownload)
	router.Post(options.BaseURL+"/session/file", wrapper.PostSessionFile)
}
