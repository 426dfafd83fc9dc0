// Package editor provides the code editor page and its actions.
package editor

// EditorSignals represents the signals sent from the frontend. Fields are
// pointers so an absent signal is not mistaken for an empty one.
type EditorSignals struct {
	Code        *string `json:"code"`
	PrefersDark *bool   `json:"prefersDark"`
}

const (
	cookieName  = "codepad"
	clientIDKey = "client_id"

	// colorSchemeHint is the client hint carrying prefers-color-scheme.
	colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)
