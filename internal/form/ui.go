package form

// Visibility is an explicit show/hide flag. Shows and Hides count calls so
// paired operations can be checked.
type Visibility struct {
	visible bool
	shows   int
	hides   int
}

func (v *Visibility) Show() {
	v.visible = true
	v.shows++
}

func (v *Visibility) Hide() {
	v.visible = false
	v.hides++
}

func (v *Visibility) Visible() bool { return v.visible }
func (v *Visibility) Shows() int    { return v.shows }
func (v *Visibility) Hides() int    { return v.hides }

// UIState holds the loader and the message modal. The fade overlay has no
// state of its own: it is visible while either of them is.
type UIState struct {
	Loader  Visibility
	Message Visibility
	Text    string
}

func (u *UIState) Overlay() bool {
	return u.Loader.Visible() || u.Message.Visible()
}

func (u *UIState) showMessage(text string) {
	u.Text = text
	u.Message.Show()
}

func (u *UIState) hideMessage() {
	u.Text = ""
	u.Message.Hide()
}
