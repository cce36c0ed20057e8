package cmdshared

import (
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/viper"
	"gopkg.in/dixonwille/wmenu.v4"

	"github.com/leocov-dev/modgrab/core"
)

// Used to implement interface for fuzzy matching
type projectResultsList []*core.Project

func (r projectResultsList) String(i int) string {
	return r[i].Title
}

func (r projectResultsList) Len() int {
	return len(r)
}

// ChooseProject picks one project out of a search result list, fuzzy-ranked
// against the search term. In non-interactive mode the best match wins;
// otherwise the user chooses from a menu. Returns false when cancelled.
func ChooseProject(searchTerm string, projects []*core.Project) (*core.Project, bool) {
	if len(projects) == 0 {
		return nil, false
	}
	if len(projects) == 1 {
		return projects[0], true
	}

	// Fuzzy search on results list
	fuzzySearchResults := fuzzy.FindFrom(searchTerm, projectResultsList(projects))

	if viper.GetBool("non-interactive") {
		if len(fuzzySearchResults) > 0 {
			return projects[fuzzySearchResults[0].Index], true
		}
		return projects[0], true
	}

	menu := wmenu.NewMenu("Choose a number:")

	menu.Option("Cancel", nil, false, nil)
	if len(fuzzySearchResults) == 0 {
		for i, v := range projects {
			menu.Option(v.Title+" ("+v.Description+")", v, i == 0, nil)
		}
	} else {
		for i, v := range fuzzySearchResults {
			menu.Option(projects[v.Index].Title+" ("+projects[v.Index].Description+")", projects[v.Index], i == 0, nil)
		}
	}

	var selected *core.Project
	var cancelled bool
	menu.Action(func(menuRes []wmenu.Opt) error {
		if len(menuRes) != 1 || menuRes[0].Value == nil {
			fmt.Println("Cancelled!")
			cancelled = true
			return nil
		}

		var ok bool
		selected, ok = menuRes[0].Value.(*core.Project)
		if !ok {
			return errors.New("error converting interface from wmenu")
		}
		return nil
	})
	if err := menu.Run(); err != nil {
		return nil, false
	}

	if cancelled {
		return nil, false
	}
	return selected, true
}
