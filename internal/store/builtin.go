package store

import "github.com/jmylchreest/pixelator/internal/colour"

// builtinPalettes is the fixed catalogue shipped with the binary, in display order.
var builtinPalettes = []struct {
	name string
	hex  []string
}{
	{
		name: "Forest Adventure",
		hex:  []string{"#3b5323", "#6b8e23", "#a2d149", "#324631", "#202b24"},
	},
	{
		name: "Desert Sands",
		hex:  []string{"#e4a672", "#c68642", "#a65f38", "#5c3c25", "#2b1f14"},
	},
	{
		name: "Ocean Breeze",
		hex:  []string{"#4682b4", "#5f9ea0", "#87cefa", "#2f4f4f", "#1e3f3f"},
	},
	{
		name: "Retro Sunset",
		hex:  []string{"#ff4500", "#ff6347", "#ffa07a", "#f08080", "#800000"},
	},
	{
		name: "Neon Nights",
		hex:  []string{"#ff00ff", "#8a2be2", "#4b0082", "#0000ff", "#00ffff"},
	},
	{
		name: "Snowy Peaks",
		hex:  []string{"#ffffff", "#d3d3d3", "#a9a9a9", "#696969", "#2f4f4f"},
	},
	{
		name: "Cave Depths",
		hex:  []string{"#2c3e50", "#34495e", "#1c2833", "#566573", "#17202a"},
	},
	{
		name: "Candy Land",
		hex:  []string{"#ff69b4", "#ff1493", "#ffa07a", "#ffb6c1", "#ff00ff"},
	},
	{
		name: "Tropical Paradise",
		hex:  []string{"#20b2aa", "#2e8b57", "#3cb371", "#00fa9a", "#adff2f"},
	},
	{
		name: "Haunted Mansion",
		hex:  []string{"#4b0082", "#8b008b", "#483d8b", "#2e2e2e", "#1c1c1c"},
	},
	{
		name: "Apollo",
		hex: []string{
			"#172038", "#253a5e", "#3c5e8b", "#4f8fba", "#73bed3", "#a4dddb", "#19332d", "#25562e",
			"#468232", "#75a743", "#a8ca58", "#d0da91", "#4d2b32", "#7a4841", "#ad7757", "#c09473",
			"#d7b594", "#e7d5b3", "#341c27", "#602c2c", "#884b2b", "#be772b", "#de9e41", "#e8c170",
			"#241527", "#411d31", "#752438", "#a53030", "#cf573c", "#da863e", "#1e1d39", "#402751",
			"#7a367b", "#a23e8c", "#c65197", "#df84a5", "#090a14", "#10141f", "#151d28", "#202e37",
			"#394a50", "#577277", "#819796", "#a8b5b2", "#c7cfcc", "#ebede9",
		},
	},
	{
		name: "Sweetie 16",
		hex: []string{
			"#1a1c2c", "#5d275d", "#b13e53", "#ef7d57", "#ffcd75", "#a7f070", "#38b764", "#257179",
			"#29366f", "#3b5dc9", "#41a6f6", "#73eff7", "#f4f4f4", "#94b0c2", "#566c86", "#333c57",
		},
	},
	{
		name: "Journey",
		hex: []string{
			"#050914", "#110524", "#3b063a", "#691749", "#9c3247", "#d46453", "#f5a15d", "#ffcf8e",
			"#ff7a7d", "#ff417d", "#d61a88", "#94007a", "#42004e", "#220029", "#100726", "#25082c",
			"#3d1132", "#73263d", "#bd4035", "#ed7b39", "#ffb84a", "#fff540", "#c6d831", "#77b02a",
			"#429058", "#2c645e", "#153c4a", "#052137", "#0e0421", "#0c0b42", "#032769", "#144491",
			"#488bd4", "#78d7ff", "#b0fff1", "#faffff", "#c7d4e1", "#928fb8", "#5b537d", "#392946",
			"#24142c", "#0e0f2c", "#132243", "#1a466b", "#10908e", "#28c074", "#3dff6e", "#f8ffb8",
			"#f0c297", "#cf968c", "#8f5765", "#52294b", "#0f022e", "#35003b", "#64004c", "#9b0e3e",
			"#d41e3c", "#ed4c40", "#ff9757", "#d4662f", "#9c341a", "#691b22", "#450c28", "#2d002e",
		},
	},
	{
		name: "IslandJoy 16",
		hex: []string{
			"#ffffff", "#6df7c1", "#11adc1", "#606c81", "#393457", "#1e8875", "#5bb361", "#a1e55a",
			"#f7e476", "#f99252", "#cb4d68", "#6a3771", "#c92464", "#f48cb6", "#f7b69e", "#9b9c82",
		},
	},
	{
		name: "Dramescape Hex 8",
		hex: []string{
			"#c9cca1", "#caa05a", "#ae6a47", "#8b4049", "#543344", "#515262", "#63787d", "#8ea091",
		},
	},
	{
		name: "kenney",
		hex: []string{
			"#333333ff", "#F0E3C2ff", "#9C0000ff", "#000000ff", "#653F1Dff", "#B48554ff", "#9F8763ff", "#FF0000ff",
			"#D46700ff", "#23BE75ff",
		},
	},
}

// Builtins returns a fresh copy of the builtin palettes.
func Builtins() []colour.Palette {
	out := make([]colour.Palette, len(builtinPalettes))
	for i, b := range builtinPalettes {
		colors := make([]colour.RGB, len(b.hex))
		for j, h := range b.hex {
			colors[j] = colour.MustParseHex(h)
		}
		out[i] = colour.Palette{Name: b.name, Colors: colors}
	}
	return out
}
