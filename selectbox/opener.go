package selectbox

// LabelOpener shows the selected option's label, truncated to the width
// last passed to TruncateOpener.
type LabelOpener struct {
	box     *SelectBox
	value   string
	prefix  string
	width   int
	display string
}

func (o *LabelOpener) InitOpener(box *SelectBox) {
	o.box = box
}

func (o *LabelOpener) UpdateOpener(value string) {
	o.value = value
	o.refresh()
}

func (o *LabelOpener) TruncateOpener(prefix string, width int) {
	o.prefix = prefix
	o.width = width
	o.refresh()
}

func (o *LabelOpener) refresh() {
	label := o.box.Label(o.value)
	if o.width > 0 {
		label = TruncateLabel(label, o.width)
	}
	o.display = label
}

func (o *LabelOpener) Label() string {
	return o.display
}

// Prefix is the text metrics prefix the opener was last truncated with.
func (o *LabelOpener) Prefix() string {
	return o.prefix
}
