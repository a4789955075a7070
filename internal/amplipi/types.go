package amplipi

// Status is the full controller configuration and state document.
type Status struct {
	Sources []Source `json:"sources"`
	Zones   []Zone   `json:"zones"`
	Groups  []Group  `json:"groups"`
	Streams []Stream `json:"streams"`
	Presets []Preset `json:"presets"`
	Info    *Info    `json:"info,omitempty"`
}

// Info reports controller settings and firmware version.
type Info struct {
	ConfigFile  string `json:"config_file"`
	Version     string `json:"version"`
	MockCtrl    bool   `json:"mock_ctrl"`
	MockStreams bool   `json:"mock_streams"`
}

// Source is one of the controller's audio inputs.
type Source struct {
	ID    *int        `json:"id,omitempty"`
	Name  string      `json:"name"`
	Input string      `json:"input"`
	Info  *SourceInfo `json:"info,omitempty"`
}

// SourceInfo carries playback metadata generated while a source is active.
type SourceInfo struct {
	ID      *int   `json:"id,omitempty"`
	Name    string `json:"name"`
	State   string `json:"state"`
	Artist  string `json:"artist,omitempty"`
	Track   string `json:"track,omitempty"`
	Album   string `json:"album,omitempty"`
	Station string `json:"station,omitempty"`
	ImgURL  string `json:"img_url,omitempty"`
}

// SourceUpdate is a partial reconfiguration of a source. Nil fields are
// omitted from the PATCH body so the device keeps their current values.
type SourceUpdate struct {
	Name  *string `json:"name,omitempty"`
	Input *string `json:"input,omitempty"` // "None", "local", "stream=ID"
}

// Zone is an audio output, typically a stereo pair in one room.
type Zone struct {
	ID       *int   `json:"id,omitempty"`
	Name     string `json:"name"`
	SourceID int    `json:"source_id"`
	Mute     bool   `json:"mute"`
	Vol      int    `json:"vol"`
	Disabled bool   `json:"disabled"`
}

// ZoneUpdate is a partial reconfiguration of a zone.
type ZoneUpdate struct {
	Name     *string `json:"name,omitempty"`
	SourceID *int    `json:"source_id,omitempty"`
	Mute     *bool   `json:"mute,omitempty"`
	Vol      *int    `json:"vol,omitempty"`
	Disabled *bool   `json:"disabled,omitempty"`
}

// MultiZoneUpdate applies one ZoneUpdate to a set of zones and/or groups.
type MultiZoneUpdate struct {
	Zones  []int      `json:"zones,omitempty"`
	Groups []int      `json:"groups,omitempty"`
	Update ZoneUpdate `json:"update"`
}

// Group is a set of zones controlled together. Vol and mute aggregate the
// member zones.
type Group struct {
	ID       *int   `json:"id,omitempty"`
	Name     string `json:"name"`
	SourceID *int   `json:"source_id,omitempty"`
	Zones    []int  `json:"zones"`
	Mute     *bool  `json:"mute,omitempty"`
	VolDelta *int   `json:"vol_delta,omitempty"`
}

// GroupUpdate is a partial reconfiguration of a group.
type GroupUpdate struct {
	Name     *string `json:"name,omitempty"`
	SourceID *int    `json:"source_id,omitempty"`
	Zones    []int   `json:"zones,omitempty"`
	Mute     *bool   `json:"mute,omitempty"`
	VolDelta *int    `json:"vol_delta,omitempty"`
}

// Stream is a digital input such as Pandora, AirPlay or an internet radio URL.
type Stream struct {
	ID       *int   `json:"id,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Station  string `json:"station,omitempty"`
	URL      string `json:"url,omitempty"`
	Logo     string `json:"logo,omitempty"`
	Freq     string `json:"freq,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Token    string `json:"token,omitempty"`
}

// StreamUpdate is a partial reconfiguration of a stream.
type StreamUpdate struct {
	Name     *string `json:"name,omitempty"`
	User     *string `json:"user,omitempty"`
	Password *string `json:"password,omitempty"`
	Station  *string `json:"station,omitempty"`
	URL      *string `json:"url,omitempty"`
	Logo     *string `json:"logo,omitempty"`
	Freq     *string `json:"freq,omitempty"`
}

// PresetState is the set of partial source/zone/group changes a preset applies.
type PresetState struct {
	Sources []SourceUpdateWithID `json:"sources,omitempty"`
	Zones   []ZoneUpdateWithID   `json:"zones,omitempty"`
	Groups  []GroupUpdateWithID  `json:"groups,omitempty"`
}

// SourceUpdateWithID targets a specific source.
type SourceUpdateWithID struct {
	SourceUpdate
	ID int `json:"id"`
}

// ZoneUpdateWithID targets a specific zone.
type ZoneUpdateWithID struct {
	ZoneUpdate
	ID int `json:"id"`
}

// GroupUpdateWithID targets a specific group.
type GroupUpdateWithID struct {
	GroupUpdate
	ID int `json:"id"`
}

// Command configures the state of one stream when a preset loads.
type Command struct {
	StreamID int    `json:"stream_id"`
	Cmd      string `json:"cmd"`
}

// Preset is a stored partial configuration loadable on demand.
type Preset struct {
	ID       *int         `json:"id,omitempty"`
	Name     string       `json:"name"`
	State    *PresetState `json:"state,omitempty"`
	Commands []Command    `json:"commands,omitempty"`
	LastUsed *int64       `json:"last_used,omitempty"`
}

// PresetUpdate replaces a preset's state and commands wholesale.
type PresetUpdate struct {
	Name     string       `json:"name"`
	State    *PresetState `json:"state,omitempty"`
	Commands []Command    `json:"commands,omitempty"`
}

// Announcement is a one-shot PA-style playback request. When no zones or
// groups are given the device plays it on every available zone.
type Announcement struct {
	Media    string   `json:"media"`
	Vol      *int     `json:"vol,omitempty"`
	VolF     *float64 `json:"vol_f,omitempty"`
	SourceID *int     `json:"source_id,omitempty"`
	Zones    []int    `json:"zones,omitempty"`
	Groups   []int    `json:"groups,omitempty"`
}

// PlayMedia asks the controller to play a media URL on a source.
type PlayMedia struct {
	Media    string   `json:"media"`
	VolF     *float64 `json:"vol_f,omitempty"`
	SourceID *int     `json:"source_id,omitempty"`
}

// sourcesEnvelope and friends unwrap the collection endpoints, which nest
// their lists under a field named after the collection.
type sourcesEnvelope struct {
	Sources []Source `json:"sources"`
}

type zonesEnvelope struct {
	Zones []Zone `json:"zones"`
}

type groupsEnvelope struct {
	Groups []Group `json:"groups"`
}

type streamsEnvelope struct {
	Streams []Stream `json:"streams"`
}

type presetsEnvelope struct {
	Presets []Preset `json:"presets"`
}
