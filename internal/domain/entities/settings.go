package entities

// Settings is the loaded release configuration in domain terms, produced by
// the config package and immutable afterwards.
type Settings struct {
	// RepoSlug is "owner/name", used for issue-suffix links and releases.
	RepoSlug string

	BreakingChangeHeader string
	IssueSuffixMode      IssueSuffixMode

	// CommitTags is the repository-wide tag table; components may override.
	CommitTags []CommitTagSettings

	Components []*Component

	// Steps is the assembled pipeline per component name. Single-component
	// repositories use the entry under the component's name as well.
	Steps map[string][]StepSettings
}

// ChangeSetSettings derives the change-set folding settings for a component.
func (s *Settings) ChangeSetSettings(component *Component) ChangeSetSettings {
	tags := s.CommitTags
	if component != nil && len(component.CommitTags) > 0 {
		tags = component.CommitTags
	}
	return ChangeSetSettings{
		Tags:                 tags,
		IssueSuffixMode:      s.IssueSuffixMode,
		BreakingChangeHeader: s.BreakingChangeHeader,
		RepoSlug:             s.RepoSlug,
	}
}

// Component finds a component by name, nil when unknown.
func (s *Settings) Component(name string) *Component {
	for _, component := range s.Components {
		if component.Name == name {
			return component
		}
	}
	return nil
}
