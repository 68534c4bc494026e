package pipeline

// Sequencer knows the fixed task orderings of each project kind and answers
// "which task comes after this one" for auto-advance focus. It is advisory
// only: execution ordering is governed by each task's predecessor status,
// never by these lists.
type Sequencer struct {
	sequences []sequence
}

type sequence struct {
	kind  string
	tasks []string
}

// NewSequencer returns a sequencer preloaded with the known project kinds
func NewSequencer() *Sequencer {
	return &Sequencer{
		sequences: []sequence{
			{
				kind: "export-rules",
				tasks: []string{
					"Select a Firewall Type",
					"Connect to Firewall",
					"Import Configuration",
					"Process Policies",
					"Download Rules",
				},
			},
			{
				kind: "shadow-policy",
				tasks: []string{
					"Select a Firewall Type",
					"Connect to Firewall",
					"Import Configuration",
					"Process Shadow Policies",
					"Download Rules",
				},
			},
			{
				kind: "block-impact",
				tasks: []string{
					"Select a Firewall Type",
					"Connect to Firewall",
					"Import Configuration",
					"Input Target Rules",
					"Process Impact Analysis",
					"Download Rules",
				},
			},
		},
	}
}

// NextTask returns the task following the given one in its sequence.
// Membership is tested against each known ordering, first match wins; the
// last task of a sequence (and an unknown task) has no successor.
func (s *Sequencer) NextTask(current string) (string, bool) {
	for _, seq := range s.sequences {
		for i, name := range seq.tasks {
			if name != current {
				continue
			}
			if i+1 < len(seq.tasks) {
				return seq.tasks[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// Kind returns the project kind the given task belongs to, first match wins
func (s *Sequencer) Kind(task string) (string, bool) {
	for _, seq := range s.sequences {
		for _, name := range seq.tasks {
			if name == task {
				return seq.kind, true
			}
		}
	}
	return "", false
}
