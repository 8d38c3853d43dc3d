/*
Package wm implements folio's desktop window manager: the window registry,
focus and z-order, minimize/maximize/restore, and the drag and resize
gestures.

A Desktop is an owned value, one per user session. It never renders; it
pushes geometry, stacking and visual state to a WindowView and calls its
change hook after every state change so the taskbar can redraw.

Example usage:

	d := wm.New(specs, wm.WithViewport(1280, 720), wm.OnChange(redraw))
	d.Open("about")
	d.Maximize("about")
	d.HandlePointer(ev)

Operations on unknown window IDs are no-ops.
*/
package wm
