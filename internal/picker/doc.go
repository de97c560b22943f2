// Package picker holds the rendering-free core of the model switcher: the
// ordered candidate list, the gate that freezes a session's model after its
// first response, and the state machine that turns user commits and cancels
// into exactly one final outcome.
//
// The machine moves between three states:
//   - Locked: the session already has a response; only dismiss is accepted.
//   - ModelList: the user picks a model from the catalog.
//   - EffortList: a reasoning-family model was picked and needs an effort.
//
// Outcomes are reported through the OnSelect and OnExit callbacks given to
// New. Exactly one of them fires, once; afterwards every event is ignored.
package picker
