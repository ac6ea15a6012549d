package compare

// 字段路径按在 JSON 中的嵌套层级用点号拼接,列表层不计入路径

// exactMatchFields 清洗后做包含匹配的字段
var exactMatchFields = map[string]bool{
	"Variants Include.Gene":                                      true,
	"Variants Include.variants.HGVS":                             true,
	"Variants Include.variants.cDNA Change.transcript":           true,
	"Variants Include.variants.cDNA Change.ref":                  true,
	"Variants Include.variants.cDNA Change.alt":                  true,
	"Variants Include.variants.cDNA Change.position":             true,
	"Variants Include.variants.Protein Change.ref":               true,
	"Variants Include.variants.Protein Change.alt":               true,
	"Variants Include.variants.Protein Change.position":          true,
	"Described Disease.Described Disease":                        true,
	"Described Disease.MONDO":                                    true,
	"Experiment Method.Assay Method":                             true,
	"Experiment Method.Material used.Material Source":            true,
	"Experiment Method.Material used.Material Name":              true,
	"Experiment Method.Readout type":                             true,
	"Experiment Method.Readout description.Conclusion":           true,
	"Experiment Method.Readout description.Molecular Effect":     true,
	"Experiment Method.Biological replicates.Biological replicates": true,
	"Experiment Method.Technical replicates.Technical replicates":   true,
	"Experiment Method.Basic positive control.Basic positive control": true,
	"Experiment Method.Basic negative control.Basic negative control": true,
	"Experiment Method.Approved assay.Approved assay":                 true,
}

// skipFields 只做大小写不敏感的原文等值比较,不计错答
var skipFields = map[string]bool{
	"Variants Include.variants.Description in input context": true,
	"Experiment Method.Material used.Description":             true,
	"Experiment Method.Readout description.Result Description": true,
	"Experiment Method.Biological replicates.Description":      true,
	"Experiment Method.Technical replicates.Description":       true,
	"Experiment Method.Basic positive control.Description":     true,
	"Experiment Method.Basic negative control.Description":     true,
	"Experiment Method.Validation controls P/LP":               true,
	"Experiment Method.Validation controls B/LB":               true,
	"Experiment Method.Statistical analysis method":            true,
	"Experiment Method.Threshold for normal readout":           true,
	"Experiment Method.Threshold for abnormal readout":         true,
}

// booleanFields 仅在参照值明确为 yes/no 时计分
var booleanFields = map[string]bool{
	"Experiment Method.Biological replicates.Biological replicates":   true,
	"Experiment Method.Technical replicates.Technical replicates":     true,
	"Experiment Method.Basic positive control.Basic positive control": true,
	"Experiment Method.Basic negative control.Basic negative control": true,
	"Experiment Method.Approved assay.Approved assay":                 true,
}

// fieldGroups ref/alt/position 三元组整体比对的字段
var fieldGroups = map[string]string{
	"Variants Include.variants.cDNA Change.ref":         groupCDNA,
	"Variants Include.variants.cDNA Change.alt":         groupCDNA,
	"Variants Include.variants.cDNA Change.position":    groupCDNA,
	"Variants Include.variants.Protein Change.ref":      groupProtein,
	"Variants Include.variants.Protein Change.alt":      groupProtein,
	"Variants Include.variants.Protein Change.position": groupProtein,
}

const (
	groupCDNA    = "cDNA Change"
	groupProtein = "Protein Change"
)

// groupMembers 每组按 ref、alt、position 顺序
var groupMembers = map[string][3]string{
	groupCDNA: {
		"Variants Include.variants.cDNA Change.ref",
		"Variants Include.variants.cDNA Change.alt",
		"Variants Include.variants.cDNA Change.position",
	},
	groupProtein: {
		"Variants Include.variants.Protein Change.ref",
		"Variants Include.variants.Protein Change.alt",
		"Variants Include.variants.Protein Change.position",
	},
}

// omissionFields 参与遗漏统计的字段
var omissionFields = map[string]bool{
	"Variants Include.variants.Protein Change.ref":      true,
	"Variants Include.variants.Protein Change.alt":      true,
	"Variants Include.variants.Protein Change.position": true,
	"Experiment Method.Assay Method":                    true,
}
