package advisor

import (
	"fmt"
	"strings"

	"github.com/kingrea/liuyao/internal/wuxing"
)

// OfflineLabel prefixes every locally generated text.
const OfflineLabel = "【離線分析】"

// OfflineHexagramText is the deterministic reading used when no backend is
// configured or the backend fails.
func OfflineHexagramText(f HexagramFacts) string {
	v := newHexagramView(f)
	c := f.Chart
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", OfflineLabel, v.Name)
	fmt.Fprintf(&b, "整體：基礎卦象解讀。本卦屬%s宮（%s），%s卦，世在第%d爻，應在第%d爻。\n",
		v.Palace, c.Primary.Palace.Element, v.Generation, c.Primary.Palace.Shi, c.Primary.Palace.Ying)
	if c.Transformed != nil {
		var moving []int
		for i, m := range c.Moving {
			if m {
				moving = append(moving, i+1)
			}
		}
		fmt.Fprintf(&b, "動爻：第%s爻動，變為%s。動爻影響需手動分析。\n", joinInts(moving, "、"), c.Transformed.Name)
	} else {
		b.WriteString("動爻：無動爻，以本卦靜斷。\n")
	}
	switch {
	case v.YongShen == "":
		b.WriteString("用神：未指定（離線）\n")
	case v.YongLines != "":
		fmt.Fprintf(&b, "用神：%s%s（離線）\n", v.YongShen, v.YongLines)
	default:
		fmt.Fprintf(&b, "用神：%s（離線）\n", v.YongShen)
	}
	b.WriteString("建議：保持耐心觀察；記錄變化過程\n")
	b.WriteString("時機：時機需自行把握")
	return b.String()
}

// OfflineConstitutionText renders the local advice table for the dominant
// element together with the reading's imbalances.
func OfflineConstitutionText(f ConstitutionFacts) string {
	r := f.Reading
	var b strings.Builder
	local, err := wuxing.AdviceFor(r.Dominant)
	if err != nil {
		fmt.Fprintf(&b, "%s基礎體質分析\n請連接網絡獲取詳細分析", OfflineLabel)
		return b.String()
	}
	fmt.Fprintf(&b, "%s%s\n", OfflineLabel, local.Constitution)
	fmt.Fprintf(&b, "平衡分數：%.1f；最旺 %s，最弱 %s\n", r.BalanceScore, r.Dominant, r.Weak)
	if len(r.Imbalances) > 0 {
		labels := make([]string, 0, len(r.Imbalances))
		for _, im := range r.Imbalances {
			labels = append(labels, im.Label)
		}
		fmt.Fprintf(&b, "失衡：%s\n", strings.Join(labels, "、"))
	}
	if symptoms := trimAll(f.Symptoms); len(symptoms) > 0 {
		fmt.Fprintf(&b, "症狀：%s\n", strings.Join(symptoms, "、"))
	}
	fmt.Fprintf(&b, "常見證型：%s\n", strings.Join(local.Patterns, "、"))
	fmt.Fprintf(&b, "建議科別：%s\n", strings.Join(local.Departments, "、"))
	fmt.Fprintf(&b, "生活調理：%s\n", strings.Join(local.SelfCare, "；"))
	fmt.Fprintf(&b, "飲食建議：%s", strings.Join(local.Diet, "、"))
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "\n%s", rec)
	}
	return b.String()
}
