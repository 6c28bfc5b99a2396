// Package loader registers application features and loads their routes.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers features on a Manager and calls LoadAll once the
// global middleware is in place.
package loader
