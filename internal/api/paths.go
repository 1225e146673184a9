// Package api provides the remote reply backends and the translation client.
package api

// GJSON paths for extracting values from remote responses.
const (
	// Default location of the reply text in a backend JSON body: {"reply": "..."}
	PathReply = "reply"

	// WebSocket frame fields
	PathFrameKind    = "kind"
	PathFrameContent = "content"

	// MyMemory translation response
	PathTranslatedText = "responseData.translatedText"
	PathResponseStatus = "responseStatus"
	PathResponseDetail = "responseDetails"
)

// WebSocket frame kinds
const (
	FrameMessage = "message"
	FrameReply   = "reply"
	FrameError   = "error"
)
