// Package ui implements the overlay widgets drawn on top of the scenes.
//
// Widgets are authored in logical (reference) coordinates. Every frame the
// [Layer] is synced with the frame's [shaderview.Transform]: each widget
// receives its own copy of the active StretchParams (nil outside the
// scaled policy) and re-resolves its relative position against the
// transform's layout extent. Drawing maps logical rectangles to the screen
// through that mapping, and hit testing maps screen points back through its
// exact inverse, so a click always lands on the widget drawn under it.
//
// Shapes are drawn in ascending z order. Text is drawn after every shape,
// in descending z order.
package ui
