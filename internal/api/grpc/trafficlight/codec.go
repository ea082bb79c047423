package trafficlight

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/traffic-light/internal/domain/trafficlight"
)

// Field names of the status message.
const (
	fieldLight       = "light"
	fieldRed         = "red"
	fieldYellow      = "yellow"
	fieldGreen       = "green"
	fieldEnteredAt   = "entered_at_ms"
	fieldTransitions = "transitions"
	fieldTiming      = "timing"
	fieldRedMs       = "red_ms"
	fieldYellowMs    = "yellow_ms"
	fieldGreenMs     = "green_ms"
)

// ErrMalformedStatus is returned when a status message lacks required fields.
var ErrMalformedStatus = errors.New("malformed status message")

// EncodeStatus converts a controller snapshot to its wire form.
func EncodeStatus(s domain.Status) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldLight:       structpb.NewStringValue(s.Light.String()),
			fieldRed:         structpb.NewBoolValue(s.Red),
			fieldYellow:      structpb.NewBoolValue(s.Yellow),
			fieldGreen:       structpb.NewBoolValue(s.Green),
			fieldEnteredAt:   structpb.NewNumberValue(float64(s.EnteredAt)),
			fieldTransitions: structpb.NewNumberValue(float64(s.Transitions)),
			fieldTiming: structpb.NewStructValue(&structpb.Struct{
				Fields: map[string]*structpb.Value{
					fieldRedMs:    structpb.NewNumberValue(float64(s.Timing.Red)),
					fieldYellowMs: structpb.NewNumberValue(float64(s.Timing.Yellow)),
					fieldGreenMs:  structpb.NewNumberValue(float64(s.Timing.Green)),
				},
			}),
		},
	}
}

// DecodeStatus converts a wire status back to a controller snapshot.
func DecodeStatus(msg *structpb.Struct) (domain.Status, error) {
	fields := msg.GetFields()

	lightValue, ok := fields[fieldLight]
	if !ok {
		return domain.Status{}, fmt.Errorf("%w: missing %q", ErrMalformedStatus, fieldLight)
	}

	light, err := domain.ParseLight(lightValue.GetStringValue())
	if err != nil {
		return domain.Status{}, fmt.Errorf("%w: %w", ErrMalformedStatus, err)
	}

	timing := fields[fieldTiming].GetStructValue().GetFields()

	return domain.Status{
		Light:       light,
		Red:         fields[fieldRed].GetBoolValue(),
		Yellow:      fields[fieldYellow].GetBoolValue(),
		Green:       fields[fieldGreen].GetBoolValue(),
		EnteredAt:   uint32(fields[fieldEnteredAt].GetNumberValue()),
		Transitions: uint64(fields[fieldTransitions].GetNumberValue()),
		Timing: domain.Timing{
			Red:    uint32(timing[fieldRedMs].GetNumberValue()),
			Yellow: uint32(timing[fieldYellowMs].GetNumberValue()),
			Green:  uint32(timing[fieldGreenMs].GetNumberValue()),
		},
	}, nil
}
