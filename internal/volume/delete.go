package volume

import (
	"context"
	"errors"
	"fmt"

	"podconsole/internal/podman"
)

// State is a phase of the delete dialog.
type State int

const (
	Idle State = iota
	Confirming
	Deleting
	ForceConfirming
)

func (s State) String() string {
	switch s {
	case Confirming:
		return "confirming"
	case Deleting:
		return "deleting"
	case ForceConfirming:
		return "force-confirming"
	}
	return "idle"
}

// Plan is what confirming the dialog does: delete the volume when every tag
// is selected, otherwise untag the selected tags one by one.
type Plan struct {
	DeleteAll bool
	Untag     []string
}

// ErrNothingSelected is returned by Confirm when no tag is checked.
var ErrNothingSelected = errors.New("no tag selected")

// DeleteDialog is the state machine behind the volume delete confirmation.
type DeleteDialog struct {
	Volume podman.Volume

	state    State
	tags     []string
	selected map[string]bool
	reason   string
}

// NewDeleteDialog opens the dialog for v in the Confirming state with the
// first tag in sort order (the ":latest" one when present) pre-selected.
func NewDeleteDialog(v podman.Volume) *DeleteDialog {
	d := &DeleteDialog{
		Volume:   v,
		state:    Confirming,
		tags:     SortTags(v.RepoTags),
		selected: map[string]bool{},
	}
	if len(d.tags) > 0 {
		d.selected[d.tags[0]] = true
	}
	return d
}

// State returns the current phase.
func (d *DeleteDialog) State() State { return d.state }

// Tags returns the checklist in display order.
func (d *DeleteDialog) Tags() []string { return d.tags }

// Selected reports whether tag is checked.
func (d *DeleteDialog) Selected(tag string) bool { return d.selected[tag] }

// Toggle flips one checkbox.
func (d *DeleteDialog) Toggle(tag string) {
	if d.state != Confirming {
		return
	}
	d.selected[tag] = !d.selected[tag]
}

// CanSelectAll reports whether the "select all" shortcut is offered.
func (d *DeleteDialog) CanSelectAll() bool { return len(d.tags) > 2 }

// SelectAll checks every tag.
func (d *DeleteDialog) SelectAll() {
	if d.state != Confirming {
		return
	}
	for _, t := range d.tags {
		d.selected[t] = true
	}
}

// Checked returns the selected tags in display order.
func (d *DeleteDialog) Checked() []string {
	var out []string
	for _, t := range d.tags {
		if d.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

// CanConfirm reports whether the delete button is enabled. Untagged volumes
// have nothing to select and are always deletable.
func (d *DeleteDialog) CanConfirm() bool {
	return d.state == Confirming && (len(d.tags) == 0 || len(d.Checked()) > 0)
}

// Confirm moves to Deleting and returns what to do.
func (d *DeleteDialog) Confirm() (Plan, error) {
	if d.state != Confirming {
		return Plan{}, fmt.Errorf("confirm in state %s", d.state)
	}
	if !d.CanConfirm() {
		return Plan{}, ErrNothingSelected
	}
	d.state = Deleting
	checked := d.Checked()
	if len(checked) == len(d.tags) {
		return Plan{DeleteAll: true}, nil
	}
	return Plan{Untag: checked}, nil
}

// DeleteFailed moves to ForceConfirming, remembering why the plain delete
// was refused.
func (d *DeleteDialog) DeleteFailed(reason string) {
	d.state = ForceConfirming
	d.reason = reason
}

// Reason is the refusal shown by the force-remove prompt.
func (d *DeleteDialog) Reason() string { return d.reason }

// Close returns to Idle, from any state.
func (d *DeleteDialog) Close() { d.state = Idle }

// DeleteError is a refused plain delete. The dialog offers a forced removal.
type DeleteError struct {
	Volume podman.Volume
	Err    *podman.APIError
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete volume %s: %v", e.Volume.Name(), e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// UntagError is the first failed untag of a sequence. Tags untagged before
// it stay untagged.
type UntagError struct {
	Tag  string
	Done []string
	Err  *podman.APIError
}

func (e *UntagError) Error() string { return fmt.Sprintf("Failed to remove volume %s", e.Tag) }

func (e *UntagError) Unwrap() error { return e.Err }

// ForceError is a failed forced removal.
type ForceError struct {
	Volume podman.Volume
	Err    *podman.APIError
}

func (e *ForceError) Error() string {
	return fmt.Sprintf("Failed to force remove volume %s", e.Volume.Name())
}

func (e *ForceError) Unwrap() error { return e.Err }

// Execute carries out plan against v. A refused delete is a *DeleteError, a
// failed untag a *UntagError.
func Execute(ctx context.Context, c podman.Client, v podman.Volume, plan Plan) error {
	if plan.DeleteAll {
		if err := c.DeleteVolume(ctx, v.IsSystem, v.ID, false); err != nil {
			return &DeleteError{Volume: v, Err: podman.AsAPIError(err)}
		}
		return nil
	}
	return Untag(ctx, c, v, plan.Untag)
}

// Untag removes tags from v one at a time, waiting for each call before the
// next. Concurrent untags of one volume are undefined on the backend. The
// first failure stops the sequence; there is no rollback.
func Untag(ctx context.Context, c podman.Client, v podman.Volume, tags []string) error {
	var done []string
	for _, ref := range tags {
		repo, tag := SplitTag(ref)
		if err := c.UntagVolume(ctx, v.IsSystem, v.ID, repo, tag); err != nil {
			return &UntagError{Tag: ref, Done: done, Err: podman.AsAPIError(err)}
		}
		done = append(done, ref)
	}
	return nil
}

// ForceDelete removes v together with the containers using it.
func ForceDelete(ctx context.Context, c podman.Client, v podman.Volume) error {
	if err := c.DeleteVolume(ctx, v.IsSystem, v.ID, true); err != nil {
		return &ForceError{Volume: v, Err: podman.AsAPIError(err)}
	}
	return nil
}
