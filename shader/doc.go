// Package shader loads shader modules for scene pipelines.
//
// A module is SPIR-V in 32-bit words. Paths ending in .spv are read as
// SPIR-V binaries; paths ending in .wgsl are compiled with naga. Paths of
// the form "builtin:name" resolve to the WGSL sources embedded in this
// package, so the application renders without any shader files on disk.
//
// The [Loader] retries a missing path with the .spv extension toggled:
// "cubes.frag.spv" falls back to "cubes.frag" and "cubes.frag" to
// "cubes.frag.spv".
//
// A [Watcher] reports changes to loaded shader files so the scheduler can
// drop stale pipelines and rebuild them on next use.
package shader
