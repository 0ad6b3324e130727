package farmos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a numeric farmOS record identifier. The Drupal RESTWS layer is
// inconsistent about whether ids arrive as JSON numbers or quoted strings,
// so ID accepts both on the wire.
type ID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing id %q: %w", data, err)
	}

	*id = ID(n)

	return nil
}

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Flag is a boolean that serializes as Drupal's "0"/"1" strings. Use a
// *Flag field when "unset" must be distinguishable from false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "1", "true":
		*f = true
	case "", "0", "false", "null":
		*f = false
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFlagValue, data)
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"1"`), nil
	}

	return []byte(`"0"`), nil
}

// NewFlag returns a *Flag holding v, for the tri-state record fields.
func NewFlag(v bool) *Flag {
	f := Flag(v)

	return &f
}

// ResourceRef points at another farmOS record.
type ResourceRef struct {
	ID       ID     `json:"id"                 yaml:"id"`
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
	URI      string `json:"uri,omitempty"      yaml:"uri,omitempty"`
}

// TextField is a Drupal long-text value.
type TextField struct {
	Value  string `json:"value"            yaml:"value"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Asset represents a farm_asset record (animal, planting, equipment, ...).
type Asset struct {
	ID          ID         `json:"id,omitempty"          yaml:"id,omitempty"`
	Name        string     `json:"name,omitempty"        yaml:"name,omitempty"`
	Type        string     `json:"type,omitempty"        yaml:"type,omitempty"`
	Description *TextField `json:"description,omitempty" yaml:"description,omitempty"`
	Archived    *Flag      `json:"archived,omitempty"    yaml:"archived,omitempty"`
	Created     int64      `json:"created,omitempty"     yaml:"created,omitempty"`
	Changed     int64      `json:"changed,omitempty"     yaml:"changed,omitempty"`
	URI         string     `json:"uri,omitempty"         yaml:"uri,omitempty"`
}

// Log represents a log record (activity, observation, harvest, input, ...).
type Log struct {
	ID        ID            `json:"id,omitempty"        yaml:"id,omitempty"`
	Name      string        `json:"name,omitempty"      yaml:"name,omitempty"`
	Type      string        `json:"type,omitempty"      yaml:"type,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Done      *Flag         `json:"done,omitempty"      yaml:"done,omitempty"`
	Notes     *TextField    `json:"notes,omitempty"     yaml:"notes,omitempty"`
	Assets    []ResourceRef `json:"asset,omitempty"     yaml:"asset,omitempty"`
	Areas     []ResourceRef `json:"area,omitempty"      yaml:"area,omitempty"`
	Owner     []ResourceRef `json:"log_owner,omitempty" yaml:"log_owner,omitempty"`
	URI       string        `json:"uri,omitempty"       yaml:"uri,omitempty"`
}

// Term represents a taxonomy_term record.
type Term struct {
	TID         ID           `json:"tid,omitempty"         yaml:"tid,omitempty"`
	Name        string       `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Vocabulary  *ResourceRef `json:"vocabulary,omitempty"  yaml:"vocabulary,omitempty"`
	Parent      []ResourceRef `json:"parent,omitempty"     yaml:"parent,omitempty"`
	Weight      int          `json:"weight,omitempty"      yaml:"weight,omitempty"`
	URI         string       `json:"uri,omitempty"         yaml:"uri,omitempty"`
}

// Area is a taxonomy term in the farm_areas vocabulary, with the extra
// fields the farm_area module attaches.
type Area struct {
	Term `yaml:",inline"`

	AreaType string     `json:"area_type,omitempty" yaml:"area_type,omitempty"`
	Geometry []GeoField `json:"geofield,omitempty"  yaml:"geofield,omitempty"`
}

// GeoField carries a WKT geometry string.
type GeoField struct {
	Geom string `json:"geom" yaml:"geom"`
}

// Vocabulary represents a taxonomy_vocabulary record.
type Vocabulary struct {
	VID         ID     `json:"vid"                   yaml:"vid"`
	Name        string `json:"name"                  yaml:"name"`
	MachineName string `json:"machine_name"          yaml:"machine_name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FarmInfo is the /farm.json response.
type FarmInfo struct {
	Name string   `json:"name" yaml:"name"`
	URL  string   `json:"url"  yaml:"url"`
	API  string   `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	User FarmUser `json:"user" yaml:"user"`
}

// FarmUser identifies the authenticated user.
type FarmUser struct {
	UID  ID     `json:"uid"  yaml:"uid"`
	Name string `json:"name" yaml:"name"`
	Mail string `json:"mail" yaml:"mail"`
}

// PageResponse is the farmOS list envelope. Last is a URL whose "page"
// query parameter carries the final zero-based page index.
type PageResponse[T any] struct {
	List  []T    `json:"list"            yaml:"list"`
	First string `json:"first,omitempty" yaml:"first,omitempty"`
	Self  string `json:"self,omitempty"  yaml:"self,omitempty"`
	Last  string `json:"last,omitempty"  yaml:"last,omitempty"`
}

// WriteResult describes the outcome of a create or update call. Fields
// holds whatever else the server reported alongside the well-known keys.
type WriteResult struct {
	ID       ID                     `json:"id,omitempty"       yaml:"id,omitempty"`
	URI      string                 `json:"uri,omitempty"      yaml:"uri,omitempty"`
	Resource string                 `json:"resource,omitempty" yaml:"resource,omitempty"`
	Fields   map[string]interface{} `json:"-"                  yaml:"-"`
}

// UnmarshalJSON keeps unknown server fields available on Fields.
func (r *WriteResult) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("parsing write result: %w", err)
	}

	type plain WriteResult

	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("parsing write result: %w", err)
	}

	delete(raw, "id")
	delete(raw, "uri")
	delete(raw, "resource")

	*r = WriteResult(known)
	r.Fields = raw

	return nil
}
