package camera

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	jsonRPCVersion = "2.0"
	methodToolCall = "tools/call"
)

// Tool names exposed by the camera service.
const (
	ToolServerInfo        = "hello_mcp_camera"
	ToolSearchCameras     = "list_cameras_in_radius"
	ToolGetCamera         = "get_camera"
	ToolGetCameraImageURL = "get_camera_image_url"
)

// rpcRequest is the JSON-RPC 2.0 envelope sent for every tool call.
type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Method  string         `json:"method"`
	Params  toolCallParams `json:"params"`
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// rpcResponse mirrors the service reply: either result or error is set.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *ToolResult     `json:"result"`
	Error   *rpcErrorBody   `json:"error"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToolResult is the opaque tool payload. Camera fields are not modelled;
// the service returns free text inside content items.
type ToolResult struct {
	Content []Content `json:"content" yaml:"content"`
	IsError bool      `json:"isError,omitempty" yaml:"isError,omitempty"`
}

// Content is one item of a tool result.
type Content struct {
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// HasContent reports whether the result carries a first content item.
func (r *ToolResult) HasContent() bool {
	return r != nil && len(r.Content) > 0
}

// Text returns the first content item's text, or "".
func (r *ToolResult) Text() string {
	if !r.HasContent() {
		return ""
	}
	return r.Content[0].Text
}

// imageURLPattern is the one place tied to the service's text layout.
var imageURLPattern = regexp.MustCompile(`https?://\S+`)

// ImageURL extracts the first URL-shaped substring from the result text.
func ImageURL(r *ToolResult) (string, bool) {
	text := r.Text()
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	match := imageURLPattern.FindString(text)
	return match, match != ""
}
