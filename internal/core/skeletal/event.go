package skeletal

// EventData is the setup definition of a named event.
type EventData struct {
	Name      string
	Int       int
	Float     float32
	String    string
	AudioPath string
	Volume    float32
	Balance   float32
}

func NewEventData(name string) *EventData {
	return &EventData{Name: name, Volume: 1}
}

// Event is a keyed occurrence of an EventData fired by an event timeline.
// Values start as the data's defaults and may be overridden per key.
type Event struct {
	data    *EventData
	Time    float32
	Int     int
	Float   float32
	String  string
	Volume  float32
	Balance float32
}

func NewEvent(time float32, data *EventData) *Event {
	return &Event{
		data:    data,
		Time:    time,
		Int:     data.Int,
		Float:   data.Float,
		String:  data.String,
		Volume:  data.Volume,
		Balance: data.Balance,
	}
}

func (e *Event) Data() *EventData { return e.data }
func (e *Event) Name() string     { return e.data.Name }
