package window

// WindowBuilderOption is a functional option for configuring a window before it is created.
// Use the With* functions to create options.
type WindowBuilderOption func(cfg *windowConfig)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(cfg *windowConfig) {
		cfg.title = title
	}
}

// WithSize sets the requested client area size. The platform may pick a different framebuffer size on high-DPI displays.
//
// Parameters:
//   - width: requested width in pixels
//   - height: requested height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(cfg *windowConfig) {
		cfg.width = width
		cfg.height = height
	}
}

// WithMinSize sets the minimum window size. Zero leaves that dimension unconstrained.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(cfg *windowConfig) {
		cfg.minWidth = width
		cfg.minHeight = height
	}
}

// WithMaxSize sets the maximum window size. Zero leaves that dimension unconstrained.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(cfg *windowConfig) {
		cfg.maxWidth = width
		cfg.maxHeight = height
	}
}

// WithResizable sets whether the user can resize the window.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(cfg *windowConfig) {
		cfg.resizable = resizable
	}
}
