package geo

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

var (
    nyc     = Point{Lat: 40.7128, Lon: -74.0060}
    nycJFK  = Point{Lat: 40.6413, Lon: -73.7781}
    london  = Point{Lat: 51.5074, Lon: -0.1278}
    toronto = Point{Lat: 43.6532, Lon: -79.3832}
)

func TestHaversineSymmetry(t *testing.T) {
    pairs := [][2]Point{
        {nyc, london},
        {nyc, toronto},
        {{Lat: -33.8688, Lon: 151.2093}, {Lat: 90, Lon: 180}},
    }
    for _, pair := range pairs {
        assert.Equal(t, Haversine(pair[0], pair[1]), Haversine(pair[1], pair[0]))
    }
}

func TestHaversineKnownDistances(t *testing.T) {
    tests := []struct {
        name   string
        a, b   Point
        meters float64
    }{
        {"NYC to London", nyc, london, 5567000},
        {"NYC to Toronto", nycJFK, toronto, 574000},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got := Haversine(tt.a, tt.b)
            assert.InEpsilon(t, tt.meters, got, 0.01)
        })
    }
}

func TestHaversineZeroDistance(t *testing.T) {
    assert.Equal(t, 0.0, Haversine(nyc, nyc))
}

func TestMidpoint(t *testing.T) {
    a := Point{Lat: 40.746667, Lon: -74.001111}
    b := Point{Lat: 40.767376, Lon: -73.986153}

    mid := Midpoint(a, b)

    assert.InEpsilon(t, 40.758275, mid.Lat, 0.01)
    assert.InEpsilon(t, -73.993106, mid.Lon, 0.01)
}

func TestIsValidLatLonBoundaries(t *testing.T) {
    tests := []struct {
        name  string
        point Point
        valid bool
    }{
        {"max corner inclusive", Point{Lat: 90.0, Lon: 180.0}, true},
        {"min corner inclusive", Point{Lat: -90.0, Lon: -180.0}, true},
        {"lat just over", Point{Lat: 90.00000001, Lon: 180.0}, false},
        {"lon just over", Point{Lat: 0, Lon: 180.00000001}, false},
        {"lat just under", Point{Lat: -90.00000001, Lon: 0}, false},
        {"origin", Point{}, true},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            assert.Equal(t, tt.valid, IsValidLatLon(tt.point))
        })
    }
}

func TestValidate(t *testing.T) {
    assert.NoError(t, Validate(Point{Lat: 45, Lon: 45}))
    assert.Error(t, Validate(Point{Lat: 91, Lon: 0}))
    assert.Error(t, Validate(Point{Lat: 0, Lon: -181}))
}
