package bnl

import (
	"fmt"
	"strings"
)

// AssetType is the closed set of asset kinds a record may carry.
type AssetType uint32

// Known asset types. Gaps in the numbering are unassigned codes.
const (
	ResTexture        AssetType = 1
	ResAnim           AssetType = 2
	ResUnknown3       AssetType = 3
	ResModel          AssetType = 4
	ResAnimEvents     AssetType = 5
	ResCutscene       AssetType = 7
	ResCutsceneEvents AssetType = 8
	ResMisc           AssetType = 10
	ResActorGoals     AssetType = 11
	ResMarker         AssetType = 12
	ResFxCallout      AssetType = 13
	ResAidList        AssetType = 14
	ResLoctext        AssetType = 16
	ResXSoundbank     AssetType = 18
	ResXDSP           AssetType = 19
	ResXCueList       AssetType = 20
	ResFont           AssetType = 21
	ResGhoulybox      AssetType = 22
	ResGhoulyspawn    AssetType = 23
	ResScript         AssetType = 24
	ResActorAttribs   AssetType = 25
	ResEmitter        AssetType = 26
	ResParticle       AssetType = 27
	ResRumble         AssetType = 28
	ResShakeCam       AssetType = 29
)

var assetTypeNames = map[AssetType]string{
	ResTexture:        "ResTexture",
	ResAnim:           "ResAnim",
	ResUnknown3:       "ResUnknown3",
	ResModel:          "ResModel",
	ResAnimEvents:     "ResAnimEvents",
	ResCutscene:       "ResCutscene",
	ResCutsceneEvents: "ResCutsceneEvents",
	ResMisc:           "ResMisc",
	ResActorGoals:     "ResActorGoals",
	ResMarker:         "ResMarker",
	ResFxCallout:      "ResFxCallout",
	ResAidList:        "ResAidList",
	ResLoctext:        "ResLoctext",
	ResXSoundbank:     "ResXSoundbank",
	ResXDSP:           "ResXDSP",
	ResXCueList:       "ResXCueList",
	ResFont:           "ResFont",
	ResGhoulybox:      "ResGhoulybox",
	ResGhoulyspawn:    "ResGhoulyspawn",
	ResScript:         "ResScript",
	ResActorAttribs:   "ResActorAttribs",
	ResEmitter:        "ResEmitter",
	ResParticle:       "ResParticle",
	ResRumble:         "ResRumble",
	ResShakeCam:       "ResShakeCam",
}

// Valid reports whether t is one of the known asset types.
func (t AssetType) Valid() bool {
	_, ok := assetTypeNames[t]
	return ok
}

func (t AssetType) String() string {
	if name, ok := assetTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AssetType(%d)", uint32(t))
}

// ParseAssetType validates a raw on-disk type code.
func ParseAssetType(code uint32) (AssetType, error) {
	t := AssetType(code)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAssetType, code)
	}
	return t, nil
}

// ParseAssetTypeName resolves a type by name. Matching is case-insensitive and
// the "Res" prefix is optional, so "texture", "ResTexture" and "restexture"
// all name ResTexture.
func ParseAssetTypeName(name string) (AssetType, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for t, n := range assetTypeNames {
		lower := strings.ToLower(n)
		if want == lower || "res"+want == lower {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAssetType, name)
}

// AssetTypes returns every known asset type in code order.
func AssetTypes() []AssetType {
	types := make([]AssetType, 0, len(assetTypeNames))
	for code := ResTexture; code <= ResShakeCam; code++ {
		if code.Valid() {
			types = append(types, code)
		}
	}
	return types
}
