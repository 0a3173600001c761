// Package engine contains the real-time render kernel of the low-pass
// filter and its external control surface.
//
// A [Kernel] owns one biquad filter stage and the ramped cutoff and
// resonance parameters. The host drives it from the render context: once
// per audio block it calls [Kernel.Render] with input/output channel
// buffers and a time-ordered list of control events, and the kernel merges
// event handling with sample processing so every event lands on its exact
// sample offset.
//
// [Controls] is the non-real-time side: parameter get/set by identifier and
// frequency-response queries for visualization. It shares nothing with the
// render path except each parameter's single-word pending slot, so it can
// be used from any goroutine without ever blocking the audio callback.
package engine
