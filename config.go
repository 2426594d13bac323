package main

import "image/color"

const (
	// --- Camera & View ---
	DefaultCameraX    = 480.0
	DefaultCameraY    = 320.0
	DefaultCameraZoom = 1.0
	ZoomLimitMin      = 0.2
	ZoomLimitMax      = 4.0
	CameraLimitMin    = -200.0

	// --- Grid & Background ---
	GridSizeSmall = 50.0
	GridSizeLarge = 200.0
	SnapGrid      = 10.0

	// --- Cards ---
	DefaultCardWidth  = 360.0
	DefaultCardHeight = 280.0
	LayoutColumns     = 3
	LayoutGap         = 40.0
	LayoutOriginX     = 40.0
	LayoutOriginY     = 40.0
	HeaderHeight      = 34.0
	ShadowOffset      = 5.0
	BorderThickness   = 3.0
	BorderOffset      = 2.0
	CornerThreshold   = 15.0
	CardPaddingX      = 10.0

	CardActionButtonWidth  = 44.0
	CardActionButtonHeight = 22.0

	// --- Comment panel ---
	PanelWidth      = 360
	PanelLineHeight = 18
	PanelPadding    = 12

	// --- UI ---
	ButtonHeight = 30.0
	ButtonMargin = 10.0
)

var (
	// --- Colors ---
	ColorBackground   = color.RGBA{30, 30, 35, 255}
	ColorGrid         = color.RGBA{255, 255, 255, 12}
	ColorGridMajor    = color.RGBA{255, 255, 255, 28}
	ColorGridBlocked  = color.RGBA{20, 20, 25, 255}
	ColorOriginCross  = color.RGBA{255, 100, 100, 150}
	ColorShadow       = color.RGBA{0, 0, 0, 100}
	ColorCardDefault  = color.RGBA{45, 45, 50, 255}
	ColorCardHeader   = color.RGBA{58, 58, 66, 255}
	ColorCardHover    = color.RGBA{0, 120, 255, 255}
	ColorCardSelected = color.RGBA{50, 205, 50, 255}
	ColorCardActive   = color.RGBA{255, 140, 0, 255}
	ColorCornerHandle = color.RGBA{255, 255, 255, 200}
	ColorPlaceholder  = color.RGBA{36, 36, 42, 255}
	ColorLoadButton   = color.RGBA{0, 110, 220, 255}
	ColorSaveButton   = color.RGBA{40, 140, 80, 255}
	ColorDeleteButton = color.RGBA{220, 50, 50, 255}
	ColorPanel        = color.RGBA{24, 24, 28, 235}
	ColorPanelText    = color.RGBA{220, 220, 220, 255}
	ColorPanelMuted   = color.RGBA{150, 150, 150, 255}
	ColorBookmark     = color.RGBA{100, 200, 255, 255}
	ColorDraft        = color.RGBA{255, 220, 120, 255}
)
