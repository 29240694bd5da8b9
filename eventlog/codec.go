// Package eventlog records engine notifications as a stream of size-prefixed
// FlatBuffers RunEvent tables and reads them back.
package eventlog

import (
	"fmt"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/signalnine/evolvekit/eventlog/eventfb"
)

// Kind tells which notification an event records.
type Kind = eventfb.EventKind

const (
	KindGeneration  = eventfb.EventKindGeneration
	KindTermination = eventfb.EventKindTermination
	KindFinished    = eventfb.EventKindFinished
)

// Event is the decoded form of a RunEvent table. Fields that do not apply to
// the kind are zero.
type Event struct {
	Kind            Kind
	RunID           string
	Generation      int
	BestFitness     float64
	BestEverFitness float64
	AvgFitness      float64
	WorstFitness    float64
	Diversity       float64
	Evaluations     int
	BestGenes       string
	Reason          string
	State           string
	Error           string
	Elapsed         time.Duration
	Timestamp       time.Time
}

// Encode serializes e as a size-prefixed RunEvent. The builder is reset first
// and may be reused; the returned slice is only valid until then.
func Encode(builder *flatbuffers.Builder, e Event) []byte {
	builder.Reset()

	// Strings must be created before the table is started
	runID := builder.CreateString(e.RunID)
	genes := builder.CreateString(e.BestGenes)
	reason := builder.CreateString(e.Reason)
	state := builder.CreateString(e.State)
	errText := builder.CreateString(e.Error)

	var timestamp int64
	if !e.Timestamp.IsZero() {
		timestamp = e.Timestamp.UnixNano()
	}

	eventfb.RunEventStart(builder)
	eventfb.RunEventAddKind(builder, e.Kind)
	eventfb.RunEventAddRunId(builder, runID)
	eventfb.RunEventAddGeneration(builder, int32(e.Generation))
	eventfb.RunEventAddBestFitness(builder, e.BestFitness)
	eventfb.RunEventAddBestEverFitness(builder, e.BestEverFitness)
	eventfb.RunEventAddAvgFitness(builder, e.AvgFitness)
	eventfb.RunEventAddWorstFitness(builder, e.WorstFitness)
	eventfb.RunEventAddDiversity(builder, e.Diversity)
	eventfb.RunEventAddEvaluations(builder, int32(e.Evaluations))
	eventfb.RunEventAddBestGenes(builder, genes)
	eventfb.RunEventAddReason(builder, reason)
	eventfb.RunEventAddState(builder, state)
	eventfb.RunEventAddError(builder, errText)
	eventfb.RunEventAddElapsedNs(builder, int64(e.Elapsed))
	eventfb.RunEventAddTimestampNs(builder, timestamp)
	eventfb.FinishSizePrefixedRunEventBuffer(builder, eventfb.RunEventEnd(builder))

	return builder.FinishedBytes()
}

// Decode parses one size-prefixed RunEvent.
func Decode(buf []byte) (e Event, err error) {
	if len(buf) < flatbuffers.SizeUint32+flatbuffers.SizeUOffsetT {
		return Event{}, fmt.Errorf("event record too short: %d bytes", len(buf))
	}
	size := flatbuffers.GetUint32(buf)
	if int(size) != len(buf)-flatbuffers.SizeUint32 {
		return Event{}, fmt.Errorf("event record size prefix %d does not match %d byte body", size, len(buf)-flatbuffers.SizeUint32)
	}

	// Malformed tables make the accessors index out of range
	defer func() {
		if r := recover(); r != nil {
			e, err = Event{}, fmt.Errorf("malformed event record: %v", r)
		}
	}()

	ev := eventfb.GetSizePrefixedRootAsRunEvent(buf, 0)
	e = Event{
		Kind:            ev.Kind(),
		RunID:           string(ev.RunId()),
		Generation:      int(ev.Generation()),
		BestFitness:     ev.BestFitness(),
		BestEverFitness: ev.BestEverFitness(),
		AvgFitness:      ev.AvgFitness(),
		WorstFitness:    ev.WorstFitness(),
		Diversity:       ev.Diversity(),
		Evaluations:     int(ev.Evaluations()),
		BestGenes:       string(ev.BestGenes()),
		Reason:          string(ev.Reason()),
		State:           string(ev.State()),
		Error:           string(ev.Error()),
		Elapsed:         time.Duration(ev.ElapsedNs()),
	}
	if ns := ev.TimestampNs(); ns != 0 {
		e.Timestamp = time.Unix(0, ns)
	}
	return e, nil
}
