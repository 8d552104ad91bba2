package events

import "encoding/json"

type eventEnvelope struct {
	Type EventType `json:"type"`
}

// ParseEvent decodes one line of the event log into its typed event. Unknown
// types return nil without an error so old binaries can read newer logs.
func ParseEvent(line []byte) (Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(line, &envelope); err != nil {
		return nil, err
	}

	var ev Event
	switch envelope.Type {
	case EventTreeImported:
		ev = &TreeImportedEvent{}
	case EventTreeReset:
		ev = &TreeResetEvent{}
	case EventTreeExported:
		ev = &TreeExportedEvent{}
	case EventTreeResized:
		ev = &TreeResizedEvent{}
	case EventNodeAdded:
		ev = &NodeAddedEvent{}
	case EventNodeDeleted:
		ev = &NodeDeletedEvent{}
	case EventNodeUpdated:
		ev = &NodeUpdatedEvent{}
	case EventSelectionChanged:
		ev = &SelectionChangedEvent{}
	case EventError:
		ev = &ErrorEvent{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(line, ev); err != nil {
		return nil, err
	}
	return ev, nil
}
