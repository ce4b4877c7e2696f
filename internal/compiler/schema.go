package compiler

// schemaSource constrains almanac documents.
const schemaSource = `
#Rule: {
	dst: int & >=0
	src: int & >=0
	len: int & >0
}

#Stage: {
	name:  string & !=""
	rules: [...#Rule]
}

#Almanac: {
	seeds: [int & >=0, ...int & >=0]
	stages: [...#Stage]
}
`
