package hero

import "time"

// Splash timing, measured from engine start.
const (
	SplashHold = 1200 * time.Millisecond // Fully opaque until here
	SplashGone = 2000 * time.Millisecond // Fully transparent and removed from here
)

// SplashOpacity returns the opacity of the start-up title card at elapsed
// time since start: 1 during the hold, fading linearly to 0 at SplashGone.
func SplashOpacity(elapsed time.Duration) float64 {
	switch {
	case elapsed < SplashHold:
		return 1
	case elapsed >= SplashGone:
		return 0
	}
	return 1 - float64(elapsed-SplashHold)/float64(SplashGone-SplashHold)
}

// SplashVisible reports whether the title card is still on screen.
func SplashVisible(elapsed time.Duration) bool {
	return elapsed < SplashGone
}
