package pipeline

// TaskKind discriminates the four kinds of work the Motion Estimation
// stage handles. Per §9's design note this is expressed as a sum type
// (TaskKind plus the *PPCS/segment index every message already carries)
// rather than an integer the receiver must remember to switch on
// correctly. NewTask and NewSegmentTask build a Task of any kind; Task is
// an exported struct, so a literal can build one too.
type TaskKind int

const (
	TaskPictureME TaskKind = iota
	TaskTemporalFilterME
	TaskFirstPassME
	TaskTPLME
)

func (k TaskKind) String() string {
	switch k {
	case TaskPictureME:
		return "picture-me"
	case TaskTemporalFilterME:
		return "tf-me"
	case TaskFirstPassME:
		return "first-pass-me"
	case TaskTPLME:
		return "tpl-me"
	default:
		return "unknown-task-kind"
	}
}

// Task is the message type posted between stages: a picture reference
// (opaque to the pipeline package -- it is a *pcs.ParentPictureControlSet
// in practice) tagged with a task kind and, for segmented stages, the
// segment this message covers.
type Task struct {
	Kind    TaskKind
	Picture interface{}
	Segment int // Segment index within the picture; -1 for whole-picture tasks.
}

// NewTask constructs a whole-picture Task of the given kind.
func NewTask(kind TaskKind, picture interface{}) Task {
	return Task{Kind: kind, Picture: picture, Segment: -1}
}

// NewSegmentTask constructs a Task scoped to one segment of a picture.
func NewSegmentTask(kind TaskKind, picture interface{}, segment int) Task {
	return Task{Kind: kind, Picture: picture, Segment: segment}
}
