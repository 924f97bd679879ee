package vterm

// actionKind tags the zero-or-more actions the parser emits per input
// byte, per spec §4.A's action list.
type actionKind uint8

const (
	actionIgnore actionKind = iota
	actionPrint
	actionExecute
	actionClear
	actionCollect
	actionParam
	actionEscDispatch
	actionCsiDispatch
	actionOscStart
	actionOscPut
	actionOscEnd
	actionDcsHook
	actionDcsPut
	actionDcsUnhook
)

// action is an emitted parser event. Not every field is populated for
// every kind: rune is valid for actionPrint, b for actionExecute/
// actionCollect/actionParam/actionOscPut/actionDcsPut, final for the
// dispatch kinds.
type action struct {
	kind  actionKind
	r     rune
	b     byte
	final byte
}
