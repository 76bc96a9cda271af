package style

// Marker pictograms known to the renderer. Symbol sets on marker features
// name one of these; remaining symbols modify color and orientation.
var markerNames = map[string]struct{}{
	"de_bf":    {},
	"de_hp":    {},
	"de_abzw":  {},
	"de_dirgr": {},
	"statdt":   {},
}

// IsMarker reports whether a symbol names a marker pictogram.
func IsMarker(name string) bool {
	_, ok := markerNames[name]
	return ok
}
