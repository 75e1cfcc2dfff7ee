package broken

//jsonmap:alias Level
type level int

type record struct {
	//jsonmap:type int|
	Count any `json:"count"`
	//jsonmap:type string
	Hidden any `json:"-"`
	//jsonmap:type int
	Both any `json:"both" jsontype:"int"`
	//jsonmap:type int
	lower any

	_ level
}
