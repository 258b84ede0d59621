package transport

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/sawka/dashborg-dialog/pkg/dasherr"
	"github.com/sawka/dashborg-dialog/pkg/dashutil"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// action types (host -> browser)
const (
	ActionAttach     = "attach"
	ActionDetach     = "detach"
	ActionCallFn     = "callfn"
	ActionSetFeature = "setfeature"
	ActionSetAttr    = "setattr"
	ActionRemoveAttr = "removeattr"
	ActionSetStyle   = "setstyle"
	ActionSetText    = "settext"
	ActionListen     = "listen"
	ActionNotify     = "notify"
)

// SurfaceAction is a fire-and-forget instruction for the browser runtime.
// Selector holds the function, attribute, style property, feature or signal name
// depending on ActionType.
type SurfaceAction struct {
	Ts         int64       `json:"ts"`
	ActionType string      `json:"type"`
	SurfaceId  string      `json:"surfaceid,omitempty"`
	ParentId   string      `json:"parentid,omitempty"`
	Selector   string      `json:"selector,omitempty"`
	Index      int         `json:"index,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Html       string      `json:"html,omitempty"`
}

func MakeAction(actionType string, surfaceId string, selector string, data interface{}) SurfaceAction {
	return SurfaceAction{
		Ts:         dashutil.Ts(),
		ActionType: actionType,
		SurfaceId:  surfaceId,
		Selector:   selector,
		Data:       data,
	}
}

// ClientSignal is sent by the browser runtime when a listened-for DOM event fires.
type ClientSignal struct {
	Ts         int64           `json:"ts"`
	UiId       string          `json:"uiid"`
	SurfaceId  string          `json:"surfaceid"`
	Signal     string          `json:"signal"`
	DetailJson json.RawMessage `json:"detail,omitempty"`
}

func (sig ClientSignal) Validate() error {
	if !dashutil.IsUUIDValid(sig.UiId) {
		return dasherr.ValidateErr(fmt.Errorf("Invalid UiId in signal"))
	}
	if !dashutil.IsUUIDValid(sig.SurfaceId) {
		return dasherr.ValidateErr(fmt.Errorf("Invalid SurfaceId in signal"))
	}
	if !dashutil.IsSignalNameValid(sig.Signal) {
		return dasherr.ValidateErr(fmt.Errorf("Invalid signal name '%s'", sig.Signal))
	}
	return nil
}

// Detail parses the signal detail.  Detail must be a JSON object (or absent/null, which
// returns an empty struct).
func (sig ClientSignal) Detail() (*structpb.Struct, error) {
	if len(sig.DetailJson) == 0 || string(sig.DetailJson) == "null" {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}
	var rtn structpb.Struct
	err := protojson.Unmarshal(sig.DetailJson, &rtn)
	if err != nil {
		return nil, dasherr.JsonUnmarshalErr("signal detail", err)
	}
	return &rtn, nil
}

// DecodeDetail decodes the signal detail into obj (a pointer to a struct using
// `mapstructure` tags).
func (sig ClientSignal) DecodeDetail(obj interface{}) error {
	detail, err := sig.Detail()
	if err != nil {
		return err
	}
	err = mapstructure.Decode(detail.AsMap(), obj)
	if err != nil {
		return dasherr.ValidateErr(fmt.Errorf("Cannot decode '%s' signal detail: %w", sig.Signal, err))
	}
	return nil
}

// MakeSignal builds a ClientSignal from a detail map (used by server-side simulation and tests).
func MakeSignal(uiId string, surfaceId string, signal string, detail map[string]interface{}) (ClientSignal, error) {
	rtn := ClientSignal{
		Ts:        dashutil.Ts(),
		UiId:      uiId,
		SurfaceId: surfaceId,
		Signal:    signal,
	}
	if detail == nil {
		return rtn, nil
	}
	pbDetail, err := structpb.NewStruct(detail)
	if err != nil {
		return rtn, dasherr.ValidateErr(fmt.Errorf("Invalid signal detail: %w", err))
	}
	barr, err := protojson.Marshal(pbDetail)
	if err != nil {
		return rtn, dasherr.JsonMarshalErr("signal detail", err)
	}
	rtn.DetailJson = json.RawMessage(barr)
	return rtn, nil
}

type NotifyData struct {
	Text     string `json:"text"`
	Duration int64  `json:"duration,omitempty"` // ms
}
