package jump

import "errors"

// overlaySet tracks the handles a session created, in creation order.
type overlaySet struct {
	renderer Renderer
	labels   []Handle
	shades   []Handle
	errs     []error
}

func newOverlaySet(r Renderer) *overlaySet {
	return &overlaySet{renderer: r}
}

func (o *overlaySet) show(pos Position, label rune, style StyleClass) {
	h, err := o.renderer.Show(pos, label, style)
	if err != nil {
		o.errs = append(o.errs, err)
		return
	}
	o.labels = append(o.labels, h)
}

func (o *overlaySet) shade(line int) {
	h, err := o.renderer.Shade(line, ShadePriority)
	if err != nil {
		o.errs = append(o.errs, err)
		return
	}
	o.shades = append(o.shades, h)
}

// clearLabels removes every label overlay but keeps the shading.
func (o *overlaySet) clearLabels() {
	o.labels = o.clearAll(o.labels)
}

// clearEverything removes labels and shading. Calling it again is a no-op.
func (o *overlaySet) clearEverything() {
	o.labels = o.clearAll(o.labels)
	o.shades = o.clearAll(o.shades)
}

func (o *overlaySet) clearAll(handles []Handle) []Handle {
	for _, h := range handles {
		if err := o.renderer.Clear(h); err != nil {
			o.errs = append(o.errs, err)
		}
	}
	return handles[:0]
}

func (o *overlaySet) flush() {
	if err := o.renderer.Flush(); err != nil {
		o.errs = append(o.errs, err)
	}
}

func (o *overlaySet) pending() int {
	return len(o.labels) + len(o.shades)
}

// err joins every collaborator failure seen so far and resets the list.
func (o *overlaySet) err() error {
	err := errors.Join(o.errs...)
	o.errs = nil
	return err
}
