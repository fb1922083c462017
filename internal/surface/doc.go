// Package surface provides the offscreen render target the host draws into
// and the recorder snapshots once per frame.
//
// Surface wraps a gg drawing context. Capture is only valid between Begin and
// End and copies the RGBA8 pixels, swizzled when the requested pixel format
// is bgra.
package surface
