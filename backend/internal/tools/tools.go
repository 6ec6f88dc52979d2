package tools

// Tool names - Web Tools
const (
	ToolWebSearch    = "web_search"
	ToolFetchWebpage = "fetch_webpage"
)
