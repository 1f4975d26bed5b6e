package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FramesPerSecond is the default render frame and gameplay tick rate
	FramesPerSecond = 30

	// FrameUpdateInterval is the default frame period derived from FramesPerSecond
	FrameUpdateInterval = time.Second / FramesPerSecond

	// WorkerCount is the default render worker pool size
	// Screen width must divide evenly by this
	WorkerCount = 16
)

// Screen defaults, in terminal cells
const (
	ScreenWidth  = 160
	ScreenHeight = 40
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "vi-crawler.log"
)
