package wuxing

import "github.com/kingrea/liuyao/internal/hexagram"

// Advice is the local, static care guidance for a constitution.
type Advice struct {
	Element      hexagram.Element `json:"element"`
	Constitution string           `json:"constitution"`
	Zang         string           `json:"zang"`
	Fu           string           `json:"fu"`
	Departments  []string         `json:"departments"`
	Patterns     []string         `json:"patterns"`
	SelfCare     []string         `json:"self_care"`
	Diet         []string         `json:"diet"`
}

var adviceTable = map[hexagram.Element]Advice{
	hexagram.Wood: {
		Zang: "肝", Fu: "膽",
		Departments: []string{"肝膽科", "情志科", "睡眠門診", "骨科/復健科"},
		Patterns:    []string{"肝氣鬱結", "肝火上炎", "肝血不足", "肝腎陰虛", "肝陽上亢"},
		SelfCare: []string{
			"規律作息，避免熬夜",
			"適度舒展拉筋運動",
			"減少酒精、辛辣食物",
			"保持情緒舒暢，避免過度壓力",
			"可練習太極、瑜伽等舒緩運動",
		},
		Diet: []string{"綠色蔬菜", "酸味食物", "枸杞", "菊花茶"},
	},
	hexagram.Fire: {
		Zang: "心", Fu: "小腸",
		Departments: []string{"心臟內科", "精神科", "睡眠中心", "中醫心系科"},
		Patterns:    []string{"心火亢盛", "心脾兩虛", "心陰不足", "心血瘀阻", "心腎不交"},
		SelfCare: []string{
			"避免過度興奮刺激",
			"減少咖啡、濃茶攝取",
			"練習冥想、靜坐",
			"保持午間小憩習慣",
			"適度有氧運動但避免過度",
		},
		Diet: []string{"紅色食物", "苦味食物", "蓮子", "百合", "小麥"},
	},
	hexagram.Earth: {
		Zang: "脾", Fu: "胃",
		Departments: []string{"腸胃科", "消化內科", "營養門診", "中醫脾胃科"},
		Patterns:    []string{"脾胃虛弱", "濕困脾胃", "胃氣上逆", "脾不統血", "脾虛濕盛"},
		SelfCare: []string{
			"定時定量用餐",
			"避免生冷、油膩食物",
			"飯後適度散步",
			"練習腹式呼吸",
			"保持心情愉快避免思慮過度",
		},
		Diet: []string{"黃色食物", "甘味食物", "山藥", "薏仁", "紅棗"},
	},
	hexagram.Metal: {
		Zang: "肺", Fu: "大腸",
		Departments: []string{"胸腔內科", "過敏科", "皮膚科", "耳鼻喉科"},
		Patterns:    []string{"肺氣虛", "肺陰虛", "風寒犯肺", "風熱犯肺", "燥邪傷肺"},
		SelfCare: []string{
			"避免空氣污染環境",
			"適度深呼吸練習",
			"保持居住環境濕度",
			"規律運動增強肺活量",
			"注意保暖避免感冒",
		},
		Diet: []string{"白色食物", "辛味食物", "梨子", "蜂蜜", "杏仁"},
	},
	hexagram.Water: {
		Zang: "腎", Fu: "膀胱",
		Departments: []string{"腎臟科", "泌尿科", "內分泌科", "中醫腎系科"},
		Patterns:    []string{"腎陽虛", "腎陰虛", "腎氣不足", "腎精虧虛", "腎不納氣"},
		SelfCare: []string{
			"保持充足睡眠",
			"避免過度勞累",
			"注意腰部保暖",
			"適度練習腰部運動",
			"避免恐懼驚嚇情緒",
		},
		Diet: []string{"黑色食物", "鹹味食物", "黑豆", "核桃", "海參"},
	},
}

// AdviceFor returns a copy of the guidance for e. Callers may modify the
// result freely.
func AdviceFor(e hexagram.Element) (Advice, error) {
	entry, ok := adviceTable[e]
	if !ok {
		return Advice{}, &hexagram.InvalidTrigramError{Kind: hexagram.KindElement, Value: e.String()}
	}
	return Advice{
		Element:      e,
		Constitution: entry.Zang + entry.Fu + "型體質",
		Zang:         entry.Zang,
		Fu:           entry.Fu,
		Departments:  append([]string(nil), entry.Departments...),
		Patterns:     append([]string(nil), entry.Patterns...),
		SelfCare:     append([]string(nil), entry.SelfCare...),
		Diet:         append([]string(nil), entry.Diet...),
	}, nil
}
