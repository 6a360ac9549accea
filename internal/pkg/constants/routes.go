package constants

// Route constants shared by the router and the controllers
const (
	PublicRoute   = "/"
	StatusRoute   = "/status"
	PreviewRoute  = "/preview"
	DownloadRoute = "/download"
	// Prefix checked by the error handler and the CSRF filter
	APIPrefix = "/api/"
	APIv1Base = "/api/v1"
	// Operator routes behind basic auth
	MetricsRoute     = "/metrics"
	DiagnosticsRoute = "/ops/diagnostics"
	// Target of the body limit redirect
	FlashUploadTooLargeRoute = "/flash/upload-too-large"
)
