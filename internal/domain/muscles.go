package domain

// MuscleGroups maps a coarse body-part tag to the muscles it contains.
// This catalog mirrors the one the dashboard UI renders its pickers from.
var MuscleGroups = map[string][]string{
	"Chest": {
		"Pectoralis Major",
		"Pectoralis Minor",
		"Serratus Anterior",
	},
	"Back": {
		"Latissimus Dorsi",
		"Trapezius",
		"Rhomboids",
		"Teres Major",
		"Erector Spinae",
		"Infraspinatus",
	},
	"Legs": {
		"Quadriceps",
		"Hamstrings",
		"Gluteus Maximus",
		"Gluteus Medius",
		"Calves (Gastrocnemius)",
		"Soleus",
		"Adductors",
		"Abductors",
	},
	"Shoulders": {
		"Anterior Deltoid",
		"Lateral Deltoid",
		"Posterior Deltoid",
		"Rotator Cuff",
	},
	"Arms": {
		"Biceps Brachii",
		"Triceps Brachii",
		"Brachialis",
		"Forearms",
	},
	"Core": {
		"Rectus Abdominis",
		"Obliques",
		"Transverse Abdominis",
	},
	"Cardio": {
		"Heart",
	},
	"Full Body": {
		"Full Body",
	},
}

// BodyPartsForMuscles returns the union of body-part groups implied by the
// given muscle tags, in the stable order of bodyPartOrder. Unknown muscles
// contribute nothing.
func BodyPartsForMuscles(muscles []string) []string {
	selected := make(map[string]bool)
	for _, muscle := range muscles {
		for part, groupMuscles := range MuscleGroups {
			for _, m := range groupMuscles {
				if m == muscle {
					selected[part] = true
				}
			}
		}
	}

	var parts []string
	for _, part := range bodyPartOrder {
		if selected[part] {
			parts = append(parts, part)
		}
	}
	return parts
}

// bodyPartOrder keeps derivation output deterministic (map iteration is not).
var bodyPartOrder = []string{
	"Chest", "Back", "Legs", "Shoulders", "Arms", "Core", "Cardio", "Full Body",
}
