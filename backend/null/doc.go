// Package null provides a headless device that validates how it is driven.
//
// Submitted work completes immediately: a submit signals its semaphore and
// fence before returning. Acquire and present results can be scripted so
// tests can drive swapchain recreation without a GPU. Misuse that a real
// driver would reject or race on (waiting a fence twice without a submit,
// submitting with an unsignaled fence reset, acquiring into a semaphore
// that is still signaled) is recorded as a violation.
//
// Importing the package registers the "null" backend.
package null
