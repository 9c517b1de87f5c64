package authoring

import (
	"sort"
	"strings"
)

// categoryBase holds the short, model-agnostic fragments every style in a
// category starts (prefix) and ends (suffix) with, plus the pack file the
// category is published in.
type categoryBase struct {
	Prefix []string
	Suffix []string
	Pack   string
}

var categoryBases = map[string]categoryBase{
	"Cinema": {
		Prefix: []string{"cinematic film still", "professional cinematography", "cinematic framing", "carefully composed shot", "atmospheric depth", "realistic lighting"},
		Suffix: []string{"filmic color science", "smooth highlight rolloff", "deep blacks", "subtle film grain", "soft halation", "high dynamic range"},
		Pack:   "10_cinema.json",
	},
	"Photography": {
		Prefix: []string{"professional photography", "realistic lighting", "natural color rendition", "coherent shadows", "true-to-life textures"},
		Suffix: []string{"sharp focus", "high detail", "balanced exposure", "fine texture detail", "natural contrast", "clean highlights"},
		Pack:   "20_photography.json",
	},
	"Illustration": {
		Prefix: []string{"detailed illustration", "cohesive style", "readable shapes", "intentional composition", "handcrafted look"},
		Suffix: []string{"cohesive palette", "clean composition", "high detail", "believable texture"},
		Pack:   "30_illustration.json",
	},
	"Anime/Manga": {
		Prefix: []string{"anime/manga illustration", "clean linework", "cel shading", "expressive character design", "vibrant palette"},
		Suffix: []string{"high clarity", "crisp edges", "clean gradients", "sharp eyes"},
		Pack:   "30_illustration.json",
	},
	"Pixel Art": {
		Prefix: []string{"pixel art", "16-bit", "limited palette", "pixel-perfect"},
		Suffix: []string{"crisp pixels", "dithered shading", "readable silhouette", "sprite-like clarity"},
		Pack:   "30_illustration.json",
	},
	"Vector": {
		Prefix: []string{"vector illustration", "flat colors", "clean shapes", "crisp edges", "smooth curves"},
		Suffix: []string{"clean layout", "consistent stroke weight", "crisp edges", "smooth curves"},
		Pack:   "30_illustration.json",
	},
	"Technical": {
		Prefix: []string{"technical illustration", "clean lines", "diagrammatic layout", "precise geometry", "labels and callouts"},
		Suffix: []string{"high legibility", "crisp lines", "precise layout", "flat lighting"},
		Pack:   "30_illustration.json",
	},
	"Printmaking": {
		Prefix: []string{"printmaking", "ink on paper", "handcrafted texture", "carved lines", "high contrast"},
		Suffix: []string{"paper texture", "ink texture", "rough edges", "high contrast"},
		Pack:   "30_illustration.json",
	},
	"Fine Art": {
		Prefix: []string{"fine art", "museum-quality", "traditional techniques", "gallery piece", "handcrafted"},
		Suffix: []string{"high detail", "handcrafted surface texture", "gallery lighting", "balanced composition"},
		Pack:   "35_fine_art.json",
	},
	"Mixed Media": {
		Prefix: []string{"mixed media artwork", "layered textures", "handcrafted marks", "tactile surface"},
		Suffix: []string{"high detail", "tactile texture", "paper grain", "layered depth", "cohesive composition"},
		Pack:   "36_mixed_media.json",
	},
	"Street Art": {
		Prefix: []string{"street art mural", "spray paint texture", "urban wall", "bold graphic shapes"},
		Suffix: []string{"bold color", "high contrast", "wall texture", "urban grit", "spray paint overspray"},
		Pack:   "37_street_art.json",
	},
	"Graphic Design": {
		Prefix: []string{"graphic design", "poster-like composition", "clear hierarchy", "bold shapes", "limited palette", "print-ready layout"},
		Suffix: []string{"crisp edges", "high contrast", "clean alignment", "balanced negative space", "print texture"},
		Pack:   "40_graphic_design.json",
	},
	"3D/CG": {
		Prefix: []string{"3d render", "high quality render", "clean geometry", "global illumination", "studio lighting", "soft shadows"},
		Suffix: []string{"clean render", "high detail", "sharp edges", "high resolution", "clean shading"},
		Pack:   "50_3d_cg.json",
	},
	"Architecture/Interior": {
		Prefix: []string{"architectural photography", "straight verticals", "clean geometry", "wide-angle lens", "realistic materials", "balanced natural light"},
		Suffix: []string{"crisp lines", "balanced exposure", "clean shadows", "high detail", "material realism"},
		Pack:   "60_architecture_interior.json",
	},
	"Fashion": {
		Prefix: []string{"fashion editorial photography", "magazine look", "high-end styling", "clean composition", "stylized studio lighting"},
		Suffix: []string{"editorial color grade", "sharp focus", "skin texture", "catchlights", "high detail"},
		Pack:   "70_fashion.json",
	},
	"Product": {
		Prefix: []string{"commercial product photography", "studio strobe lighting", "seamless background", "controlled reflections", "clean composition"},
		Suffix: []string{"crisp edges", "clean specular highlights", "premium look", "high detail", "minimal clutter"},
		Pack:   "80_product.json",
	},
	"Nature": {
		Prefix: []string{"nature photography", "natural light", "atmospheric depth", "fine detail", "realistic textures", "environmental realism"},
		Suffix: []string{"natural color", "clean contrast", "high detail", "fine microtexture", "realistic atmosphere"},
		Pack:   "90_nature.json",
	},
	"Experimental": {
		Prefix: []string{"experimental aesthetic", "bold composition", "graphic lighting", "textural detail"},
		Suffix: []string{"intentional design", "high contrast", "tactile texture", "coherent palette"},
		Pack:   "95_experimental.json",
	},
	"Color Grade": {
		Prefix: []string{"intentional color grade", "filmic tone mapping"},
		Suffix: []string{"smooth highlight rolloff", "clean shadows", "color separation", "balanced contrast"},
		Pack:   "96_color_grades.json",
	},
}

// BaseFragments returns the category's base prefix and suffix phrases. Unknown
// categories have none.
func BaseFragments(category string) (prefix, suffix []string) {
	base := categoryBases[category]
	return base.Prefix, base.Suffix
}

// BaseCategories lists the categories with base fragments, case-folded order.
func BaseCategories() []string {
	names := make([]string, 0, len(categoryBases))
	for name := range categoryBases {
		names = append(names, name)
	}
	sortFolded(names)
	return names
}

// PackFileName returns the pack a category's styles are published in. Other
// categories get a 98_ pack named after their slug.
func PackFileName(category string) string {
	if base, ok := categoryBases[category]; ok {
		return base.Pack
	}
	return "98_" + Slugify(category) + ".json"
}

func sortFolded(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}
