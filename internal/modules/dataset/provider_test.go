package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/ai"
	"tripmap/internal/types"
)

type stubSource struct {
	text string
	err  error
	got  ai.PlanRequest
	n    int
}

func (s *stubSource) GeneratePlan(_ context.Context, req ai.PlanRequest) (string, error) {
	s.n++
	s.got = req
	return s.text, s.err
}

type stubLocator struct {
	p   types.Point
	err error
	n   int
}

func (l *stubLocator) CityCenter(context.Context, string) (types.Point, error) {
	l.n++
	return l.p, l.err
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ok   bool
	}{
		{"valid", Request{CityName: "Almaty", NumDays: 3}, true},
		{"one day", Request{CityName: "Almaty", NumDays: MinDays}, true},
		{"thirty days", Request{CityName: "Almaty", NumDays: MaxDays}, true},
		{"empty city", Request{CityName: "  ", NumDays: 3}, false},
		{"zero days", Request{CityName: "Almaty", NumDays: 0}, false},
		{"too many days", Request{CityName: "Almaty", NumDays: 31}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, eris.Is(err, ErrInvalidRequest))
		})
	}
}

func TestGenerateSuccess(t *testing.T) {
	src := &stubSource{text: validPlan}
	p := NewRemoteProvider(src, nil)

	d, err := p.Generate(context.Background(), Request{CityName: " Almaty ", NumDays: 3, Preferences: " winter "})
	require.NoError(t, err)
	assert.Equal(t, "Almaty - 3 Day Trip", d.Title)
	assert.Equal(t, ai.PlanRequest{CityName: "Almaty", NumDays: 3, Preferences: "winter"}, src.got)
	assert.Len(t, d.Places, 2)
}

func TestGenerateInvalidRequestSkipsProvider(t *testing.T) {
	src := &stubSource{text: validPlan}
	p := NewRemoteProvider(src, nil)
	_, err := p.Generate(context.Background(), Request{CityName: "Almaty", NumDays: 0})
	assert.True(t, eris.Is(err, ErrInvalidRequest))
	assert.Equal(t, 0, src.n)
}

func TestGenerateErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		src  PlanSource
		want error
	}{
		{"no source", nil, ErrConfig},
		{"missing key", &stubSource{err: ai.ErrNotConfigured}, ErrConfig},
		{"empty response", &stubSource{err: ai.ErrEmptyResponse}, ErrMalformedResponse},
		{"transport failure", &stubSource{err: errors.New("dial tcp: connection refused")}, ErrNetwork},
		{"deadline", &stubSource{err: context.DeadlineExceeded}, ErrNetwork},
		{"not json", &stubSource{text: "Sorry, I cannot help with that."}, ErrMalformedResponse},
		{"wrong shape", &stubSource{text: `{"places": []}`}, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewRemoteProvider(tt.src, nil)
			d, err := p.Generate(context.Background(), Request{CityName: "Almaty", NumDays: 2})
			assert.Nil(t, d)
			assert.True(t, eris.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGenerateRepairsMissingCenter(t *testing.T) {
	noCenter := strings.Replace(validPlan, `"center": {"lat": 43.2389, "lng": 76.8897}, `, "", 1)
	require.NotEqual(t, validPlan, noCenter)

	loc := &stubLocator{p: types.Point{Lat: 43.2389, Lng: 76.8897}}
	d, err := NewRemoteProvider(&stubSource{text: noCenter}, loc).Generate(context.Background(), Request{CityName: "Almaty", NumDays: 1})
	require.NoError(t, err)
	assert.Equal(t, loc.p, d.City.Center)
	assert.Equal(t, 1, loc.n)

	// A failed lookup leaves the plan invalid.
	loc = &stubLocator{err: errors.New("quota")}
	_, err = NewRemoteProvider(&stubSource{text: noCenter}, loc).Generate(context.Background(), Request{CityName: "Almaty", NumDays: 1})
	assert.True(t, eris.Is(err, ErrMalformedResponse))

	// Plans with a center never hit the geocoder.
	loc = &stubLocator{}
	_, err = NewRemoteProvider(&stubSource{text: validPlan}, loc).Generate(context.Background(), Request{CityName: "Almaty", NumDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, loc.n)
}
