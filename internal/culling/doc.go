// Package culling decides, every few ticks, which registered objects lie
// inside the active viewpoint's frustum and flips each object's visible state.
//
// Objects live in a Registry of two parallel dense arrays (object handles and
// bounds records) that share slot indices. Each eligible cycle the Controller
// extracts six planes from the viewpoint, runs the Evaluator over the packed
// bounds records in parallel, and feeds the results to each object's state
// machine, which fires at most one transition per actual change.
package culling
