// Package scene selects and records what is drawn each frame.
//
// The active scene is one of [Loading], [LoadingCubes] or [Shader]. Input
// and widget actions are posted to a [Queue] and drained once per frame by
// the [Scheduler], which applies transitions before rendering the scene
// that is active after the drain:
//
//	sched.Post(scene.KeyEvent{Key: scene.KeyEscape, Down: true})
//	sched.Frame(&pass, transform, time, dt) // drains, then renders
//
// Scene pipelines are compiled lazily on first entry and cached. A compile
// failure reverts to Loading and raises an alert instead of failing the
// frame.
package scene
