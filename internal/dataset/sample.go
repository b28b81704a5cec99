package dataset

import "github.com/spigell/skillmatch/internal/matching"

// Sample returns a built-in data set of 10 candidates and 7 requesters.
func Sample() *Dataset {
	return &Dataset{
		Candidates: []matching.Candidate{
			{ID: "C001", Name: "Ana Silva", Skills: []string{"Python", "Django", "PostgreSQL", "REST API"}, Experience: 5, Location: "São Paulo"},
			{ID: "C002", Name: "Bruno Costa", Skills: []string{"Java", "Spring", "MySQL", "Microservices"}, Experience: 3, Location: "Rio de Janeiro"},
			{ID: "C003", Name: "Carla Mendes", Skills: []string{"JavaScript", "React", "Node.js", "MongoDB"}, Experience: 4, Location: "São Paulo"},
			{ID: "C004", Name: "Daniel Oliveira", Skills: []string{"Python", "Machine Learning", "TensorFlow", "Pandas"}, Experience: 6, Location: "Belo Horizonte"},
			{ID: "C005", Name: "Elena Rodrigues", Skills: []string{"React", "TypeScript", "CSS", "HTML"}, Experience: 2, Location: "São Paulo"},
			{ID: "C006", Name: "Fernando Santos", Skills: []string{"Python", "Django", "Docker", "AWS"}, Experience: 7, Location: "São Paulo"},
			{ID: "C007", Name: "Gabriela Lima", Skills: []string{"Java", "Spring Boot", "Kafka", "Redis"}, Experience: 4, Location: "Curitiba"},
			{ID: "C008", Name: "Henrique Alves", Skills: []string{"JavaScript", "Vue.js", "Node.js", "Express"}, Experience: 3, Location: "Porto Alegre"},
			{ID: "C009", Name: "Isabela Ferreira", Skills: []string{"Python", "Data Science", "Scikit-learn", "SQL"}, Experience: 5, Location: "São Paulo"},
			{ID: "C010", Name: "João Pedro", Skills: []string{"C#", ".NET", "Azure", "SQL Server"}, Experience: 6, Location: "Brasília"},
		},
		Requesters: []matching.Requester{
			{ID: "J001", Title: "Desenvolvedor Python Pleno", RequiredSkills: []string{"Python", "Django", "PostgreSQL"}, MinExperience: 3, Location: "São Paulo"},
			{ID: "J002", Title: "Desenvolvedor Java Sênior", RequiredSkills: []string{"Java", "Spring", "Microservices"}, MinExperience: 5, Location: "Rio de Janeiro"},
			{ID: "J003", Title: "Desenvolvedor Frontend React", RequiredSkills: []string{"React", "JavaScript", "TypeScript"}, MinExperience: 2, Location: "São Paulo"},
			{ID: "J004", Title: "Cientista de Dados", RequiredSkills: []string{"Python", "Machine Learning", "SQL"}, MinExperience: 4, Location: "São Paulo"},
			{ID: "J005", Title: "Desenvolvedor Full Stack", RequiredSkills: []string{"JavaScript", "Node.js", "React"}, MinExperience: 3, Location: "Porto Alegre"},
			{ID: "J006", Title: "Engenheiro de Software Backend", RequiredSkills: []string{"Python", "Django", "Docker"}, MinExperience: 5, Location: "São Paulo"},
			{ID: "J007", Title: "Desenvolvedor .NET", RequiredSkills: []string{"C#", ".NET", "SQL Server"}, MinExperience: 4, Location: "Brasília"},
		},
	}
}
