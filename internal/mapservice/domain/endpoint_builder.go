package domain

import "context"

// EndpointBuilder answers every request with the first and last waypoint. It is
// the builder used when no road graph is loaded.
type EndpointBuilder struct{}

func (EndpointBuilder) Name() string {
	return "endpoints"
}

func (EndpointBuilder) BuildPath(ctx context.Context, points []MapPoint) ([]MapPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrEmptyPath
	}
	return []MapPoint{points[0], points[len(points)-1]}, nil
}

// BuildPathUsingCars does not match against cars yet.
func (b EndpointBuilder) BuildPathUsingCars(ctx context.Context, points []MapPoint, _ []MapCarPath) ([]MapPoint, error) {
	return b.BuildPath(ctx, points)
}
