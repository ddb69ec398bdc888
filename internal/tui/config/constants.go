package config

import "time"

// Layout constants
const (
	// Picker panel layout
	TablePanelWidthRatio = 0.7

	// Table dimensions
	DefaultColumnSizeWidth     = 10
	DefaultColumnModifiedWidth = 19
	MinColumnNameWidth         = 20
	MaxColumnNameWidth         = 80
	DefaultTableHeight         = 20

	// Rows kept above the table for title, breadcrumb and status
	HeaderHeight = 6

	// Dialog dimensions
	DialogDefaultWidth = 50
	DialogLargeWidth   = 70
	HelpDialogWidth    = 70
	HelpDialogHeight   = 15

	// Log boxes keep at most this many lines
	LogboxMaxLines = 500
	// Terminal rows per log box at the default 400px height
	LogboxDefaultRows = 10

	// Viewport and spacing
	DefaultViewportPadding = 2
	DefaultMarginSize      = 1
)

// NoticeDuration is how long a notice stays in the status line
const NoticeDuration = 3 * time.Second
