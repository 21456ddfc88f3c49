package static

// contentTypes maps a file extension (without the dot) to its MIME type.
var contentTypes = map[string]string{
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
}

const defaultContentType = "application/octet-stream"

// ContentType returns the MIME type for ext. The lookup is exact and
// case-sensitive; unknown extensions fall back to application/octet-stream.
func ContentType(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return defaultContentType
}
