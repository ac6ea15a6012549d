package normalize

import (
	"regexp"
	"strings"
)

// aminoAcidMap 全名与三字母缩写到单字母的映射,键为小写
var aminoAcidMap = map[string]string{
	"ala": "A", "alanine": "A",
	"arg": "R", "arginine": "R",
	"asn": "N", "asparagine": "N",
	"asp": "D", "aspartic acid": "D",
	"cys": "C", "cysteine": "C",
	"gln": "Q", "glutamine": "Q",
	"glu": "E", "glutamic acid": "E",
	"gly": "G", "glycine": "G",
	"his": "H", "histidine": "H",
	"ile": "I", "isoleucine": "I",
	"leu": "L", "leucine": "L",
	"lys": "K", "lysine": "K",
	"met": "M", "methionine": "M",
	"phe": "F", "phenylalanine": "F",
	"pro": "P", "proline": "P",
	"ser": "S", "serine": "S",
	"thr": "T", "threonine": "T",
	"trp": "W", "tryptophan": "W",
	"tyr": "Y", "tyrosine": "Y",
	"val": "V", "valine": "V",
}

// aminoAcidKeys 按长度降序,保证全名优先于缩写命中
var aminoAcidKeys = []string{
	"phenylalanine", "aspartic acid", "glutamic acid", "isoleucine", "tryptophan",
	"asparagine", "methionine", "glutamine", "histidine", "threonine",
	"arginine", "cysteine", "tyrosine", "alanine", "glycine", "leucine",
	"proline", "serine", "valine", "lysine",
	"ala", "arg", "asn", "asp", "cys", "gln", "glu", "gly", "his", "ile",
	"leu", "lys", "met", "phe", "pro", "ser", "thr", "trp", "tyr", "val",
}

var nucleicAcidMap = map[string]string{
	"ADENINE": "A", "A": "A",
	"THYMINE": "T", "T": "T",
	"CYTOSINE": "C", "C": "C",
	"GUANINE": "G", "G": "G",
	"URACIL": "U", "U": "U",
}

var (
	nonAlnumRe      = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonAlphaRe      = regexp.MustCompile(`[^a-zA-Z]`)
	digitsRe        = regexp.MustCompile(`\d+`)
	ndRe            = regexp.MustCompile(`(?i)^N\.?D\.?$`)
	stopCodonRe     = regexp.MustCompile(`(STOP|TER)$`)
	bracketChangeRe = regexp.MustCompile(`\(([A-Za-z]{1,3}\d*[A-Za-z*]*\d*(?:[A-Za-z]*|\d*[A-Za-z*]*)(?:[A-Za-z*]+\d*|\d+[A-Za-z*]+)*)\)`)
	bracketLooseRe  = regexp.MustCompile(`\(([\w\d_/*]+)\)`)
)

// CleanAlnum 去除全部非字母数字字符并转小写,用于宽松比对
func CleanAlnum(s string) string {
	return strings.ToLower(nonAlnumRe.ReplaceAllString(s, ""))
}

// IsND 识别各种写法的 N.D. 标记
func IsND(s string) bool {
	return ndRe.MatchString(strings.TrimSpace(s))
}

// AminoAcid 将氨基酸表示归一为单字母
// 兼容缺失标记、括号写法 (如 "Leucine (L)")、全名、三字母与单字母
func AminoAcid(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.Contains(v, "deletion") {
		return ""
	}
	if i, j := strings.LastIndex(v, "("), strings.LastIndex(v, ")"); i >= 0 && j > i {
		inner := strings.TrimSpace(v[i+1 : j])
		if len(inner) == 1 {
			return strings.ToUpper(inner)
		}
	}
	for _, key := range aminoAcidKeys {
		if strings.Contains(v, key) {
			return aminoAcidMap[key]
		}
	}
	if v == "" {
		return ""
	}
	return strings.ToUpper(v[:1])
}

// NucleicAcid 将碱基表示归一为单字母,DNA 过滤 U,RNA 过滤 T
func NucleicAcid(value string, isDNA bool) string {
	v := strings.ToUpper(nonAlphaRe.ReplaceAllString(value, ""))
	base, ok := nucleicAcidMap[v]
	if !ok {
		return ""
	}
	if isDNA {
		return strings.ReplaceAll(base, "U", "")
	}
	return strings.ReplaceAll(base, "T", "")
}

// Position 提取纯数字位置
func Position(value string) string {
	return strings.Join(digitsRe.FindAllString(value, -1), "")
}

// AminoAcidChange 从变异描述中提取括号内的氨基酸改变,如 "c.100A>G (R34C)" -> "R34C"
// 终止密码子的 STOP/TER 写法归一为 *
func AminoAcidChange(description string) string {
	m := bracketChangeRe.FindStringSubmatch(description)
	if m == nil {
		m = bracketLooseRe.FindStringSubmatch(description)
	}
	if m == nil {
		return ""
	}
	aa := strings.ToUpper(strings.TrimSpace(m[1]))
	return stopCodonRe.ReplaceAllString(aa, "*")
}
