package models

// DashboardState tells the page which of its three shapes to render.
type DashboardState string

const (
	StateOK          DashboardState = "ok"
	StateEmpty       DashboardState = "empty"
	StateUnavailable DashboardState = "unavailable"
)

// NoticeLevel classifies a banner shown above the dashboard.
type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-visible banner.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Card is a headline figure rendered above the charts.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}
