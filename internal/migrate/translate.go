package migrate

import "github.com/haukeland/stjerne/internal/model"

// Built-in default items are recognized by icon plus either language's
// name, so a rename by the parent is never clobbered.
var taskNames = map[string]map[model.Language]string{
	"🧹": {model.LangNorwegian: "Rydd rommet", model.LangEnglish: "Clean your room"},
	"🪥": {model.LangNorwegian: "Puss tennene", model.LangEnglish: "Brush your teeth"},
	"⚽": {model.LangNorwegian: "Lek ute", model.LangEnglish: "Play outside"},
}

var rewardNames = map[string]map[model.Language]string{
	"🍦": {model.LangNorwegian: "Is på lørdag", model.LangEnglish: "Ice cream on Saturday"},
	"📱": {model.LangNorwegian: "10 min ekstra skjermtid", model.LangEnglish: "10 extra minutes screen time"},
	"🎠": {model.LangNorwegian: "Familieutflukt", model.LangEnglish: "Family outing"},
}

// TranslateDefaults renames the built-in default tasks and rewards to the
// target language. Items the parent has renamed or created are untouched.
func TranslateDefaults(data *model.AppData, target model.Language) *model.AppData {
	out := data.Clone()
	for ci := range out.Children {
		child := &out.Children[ci]
		for ti := range child.Tasks {
			t := &child.Tasks[ti]
			if names, ok := taskNames[t.Icon]; ok && names[target] != "" && isDefaultName(t.Name, names) {
				t.Name = names[target]
			}
		}
		for ri := range child.Rewards {
			r := &child.Rewards[ri]
			if names, ok := rewardNames[r.Icon]; ok && names[target] != "" && isDefaultName(r.Name, names) {
				r.Name = names[target]
			}
		}
	}
	return out
}

func isDefaultName(name string, names map[model.Language]string) bool {
	return name == names[model.LangNorwegian] || name == names[model.LangEnglish]
}
