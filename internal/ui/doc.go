// Package ui is the Bubble Tea front end of a parameter form.
//
// Core pieces:
//   - Form: the root model, one row per widget plus a notification log
//   - StepperControl / SliderControl: the two incarnations of a value,
//     bound to a widget's engine as display controls
//   - FocusManager: tab order across every control
//   - KeybindRegistry / KeyHandler: spacemacs-style leader bindings
//
// Terminals report no key release, so a run of arrow keys is treated as
// one gesture that ends SettleDelay after the last key, on Enter, or when
// focus leaves the control.
package ui
