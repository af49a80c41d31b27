// internal/app/system/limits/limits.go
package limits

// Request body size limits. These keep oversized requests from exhausting
// memory before validation runs.
const (
	// MaxJSONBodySize bounds JSON API request bodies (connection actions,
	// notification reads, login).
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxProfileBodySize bounds profile update submissions, which carry a
	// free-text bio.
	MaxProfileBodySize = 1 << 20 // 1 MB
)
