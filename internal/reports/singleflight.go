package reports

import (
	"context"

	"golang.org/x/sync/singleflight"
)

var viewBuildGroup singleflight.Group

// singleflightView collapses concurrent builds of the same report view so a
// burst of readers produces one store load.
func singleflightView(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error, bool) {
	value, err, shared := viewBuildGroup.Do(key, func() (interface{}, error) {
		return fn(ctx)
	})
	return value, err, shared
}
